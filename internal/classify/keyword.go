package classify

import (
	"fmt"
	"math"
	"strings"

	"horse.fit/newsanalysis/internal/lexicon"
	"horse.fit/newsanalysis/internal/textnorm"
)

const (
	primaryWeight   = 2
	secondaryWeight = 1

	DefaultConfidenceDivisor = 10.0
)

// Policy holds the calibration constant mapping a per-category score to confidence.
type Policy struct {
	ConfidenceDivisor float64
}

func DefaultPolicy() Policy {
	return Policy{ConfidenceDivisor: DefaultConfidenceDivisor}
}

type Options struct {
	Policy Policy
	// DynamicCategories scores existing categories missing from the keyword
	// table using their own name as the only primary keyword.
	DynamicCategories bool
}

type categoryTerms struct {
	name      string
	primary   []string
	secondary []string
}

// KeywordClassifier scores an open category set with weighted keyword containment.
type KeywordClassifier struct {
	categories []categoryTerms
	opts       Options
}

func NewKeywordClassifier(tables *lexicon.Tables, opts Options) *KeywordClassifier {
	if opts.Policy.ConfidenceDivisor <= 0 {
		opts.Policy.ConfidenceDivisor = DefaultConfidenceDivisor
	}

	c := &KeywordClassifier{opts: opts}
	if tables == nil {
		return c
	}
	c.categories = make([]categoryTerms, 0, len(tables.Categories))
	for _, row := range tables.Categories {
		c.categories = append(c.categories, categoryTerms{
			name:      row.Name,
			primary:   normalizeKeywords(row.Primary),
			secondary: normalizeKeywords(row.Secondary),
		})
	}
	return c
}

// Classify picks the best-scoring category for text. A nil existing set skips the
// existence check; the check never excludes the suggestion.
func (c *KeywordClassifier) Classify(text string, existing []Category) Result {
	result := Result{
		Scores: map[string]float64{},
		Method: MethodKeyword,
	}
	if c == nil {
		result.Message = messageNoCategory
		return result
	}

	candidates := c.candidates(existing)
	normalized := textnorm.Normalize(text)
	wordCount := len(strings.Fields(normalized))

	bestName := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := 0.0
		if wordCount > 0 {
			raw := weightedHits(normalized, candidate)
			score = float64(raw) / float64(wordCount) * 100
		}
		result.Scores[candidate.name] = round(score, 2)
		if score > bestScore {
			bestScore = score
			bestName = candidate.name
		}
	}

	if bestScore == 0 {
		result.Message = messageNoCategory
		return result
	}

	result.SuggestedCategory = stringPtr(bestName)
	result.Confidence = round(math.Min(1, bestScore/c.opts.Policy.ConfidenceDivisor), 3)
	result.Message = fmt.Sprintf("Suggested category: %s (confidence: %.1f%%)", bestName, result.Confidence*100)
	if existing != nil {
		_, found := FindCategory(existing, bestName)
		result.CategoryExists = boolPtr(found)
	}
	return result
}

func (c *KeywordClassifier) candidates(existing []Category) []categoryTerms {
	if !c.opts.DynamicCategories || len(existing) == 0 {
		return c.categories
	}

	known := make(map[string]struct{}, len(c.categories))
	for _, candidate := range c.categories {
		known[strings.ToLower(candidate.name)] = struct{}{}
	}

	candidates := append([]categoryTerms(nil), c.categories...)
	for _, category := range existing {
		name := strings.TrimSpace(category.Name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		if keyword := textnorm.Normalize(name); keyword != "" {
			candidates = append(candidates, categoryTerms{name: name, primary: []string{keyword}})
		}
	}
	return candidates
}

func weightedHits(normalized string, candidate categoryTerms) int {
	raw := 0
	for _, keyword := range candidate.primary {
		if strings.Contains(normalized, keyword) {
			raw += primaryWeight
		}
	}
	for _, keyword := range candidate.secondary {
		if strings.Contains(normalized, keyword) {
			raw += secondaryWeight
		}
	}
	return raw
}

func normalizeKeywords(keywords []string) []string {
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if value := textnorm.Normalize(keyword); value != "" {
			normalized = append(normalized, value)
		}
	}
	return normalized
}
