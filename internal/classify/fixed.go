package classify

import (
	"context"
	"fmt"
	"math"
	"strings"

	"horse.fit/newsanalysis/internal/lexicon"
	"horse.fit/newsanalysis/internal/textnorm"
)

const (
	fixedConfidenceScale = 2.0
	fixedConfidenceCap   = 0.8
	defaultConfidence    = 0.1
)

// FixedKeywordClassifier scores the closed canonical set with plain keyword hits.
// It never fails and never blocks, which makes it the fallback of last resort.
type FixedKeywordClassifier struct {
	categories []categoryTerms
	catchAll   string
}

func NewFixedKeywordClassifier(tables *lexicon.Tables) *FixedKeywordClassifier {
	c := &FixedKeywordClassifier{catchAll: lexicon.CatchAllCategory}
	if tables == nil {
		return c
	}
	c.categories = make([]categoryTerms, 0, len(tables.FixedCategories))
	for _, row := range tables.FixedCategories {
		c.categories = append(c.categories, categoryTerms{
			name:    row.Name,
			primary: normalizeKeywords(row.Keywords),
		})
	}
	return c
}

func (c *FixedKeywordClassifier) Classify(_ context.Context, doc Document) (Result, error) {
	result := Result{
		Scores: map[string]float64{},
		Method: MethodKeyword,
	}
	if c == nil {
		return result, fmt.Errorf("fixed keyword classifier is not initialized")
	}

	normalized := textnorm.Normalize(doc.Text())
	wordCount := max(1, len(strings.Fields(normalized)))

	bestName := ""
	bestScore := 0.0
	for _, category := range c.categories {
		hits := 0
		if normalized != "" {
			for _, keyword := range category.primary {
				if strings.Contains(normalized, keyword) {
					hits++
				}
			}
		}
		score := float64(hits) / float64(wordCount)
		result.Scores[category.name] = round(score, 3)
		if score > bestScore {
			bestScore = score
			bestName = category.name
		}
	}

	if bestScore == 0 {
		result.SuggestedCategory = stringPtr(c.catchAll)
		result.Confidence = defaultConfidence
		result.Method = MethodDefault
		result.Message = fmt.Sprintf("No keywords matched; defaulting to %s", c.catchAll)
		return result, nil
	}

	result.SuggestedCategory = stringPtr(bestName)
	result.Confidence = round(math.Min(fixedConfidenceCap, bestScore*fixedConfidenceScale), 3)
	result.Message = fmt.Sprintf("Suggested category: %s (confidence: %.1f%%)", bestName, result.Confidence*100)
	return result, nil
}
