package sentiment

import (
	"math"
	"strings"

	"horse.fit/newsanalysis/internal/lexicon"
	"horse.fit/newsanalysis/internal/textnorm"
)

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"

	DefaultThreshold       = 0.02
	DefaultConfidenceScale = 2.0
)

// Policy holds the calibration constants. Confidence is a density score, not a probability.
type Policy struct {
	Threshold       float64
	ConfidenceScale float64
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold:       DefaultThreshold,
		ConfidenceScale: DefaultConfidenceScale,
	}
}

type WordCounts struct {
	Positive   int `json:"positive"`
	Negative   int `json:"negative"`
	Neutral    int `json:"neutral"`
	TotalWords int `json:"total_words"`
}

type Result struct {
	Score      float64    `json:"score"`
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	WordCounts WordCounts `json:"word_counts"`
	Language   string     `json:"language,omitempty"`
}

// Neutral is the result for empty input or a recovered failure.
func Neutral() Result {
	return Result{Label: LabelNeutral}
}

// LanguageDetector picks the lexicon language for a text.
type LanguageDetector interface {
	DetectISO6391(text string) string
}

type Analyzer struct {
	tables          *lexicon.Tables
	detector        LanguageDetector
	defaultLanguage string
	policy          Policy
}

type Option func(*Analyzer)

func WithDetector(detector LanguageDetector) Option {
	return func(a *Analyzer) {
		a.detector = detector
	}
}

func WithDefaultLanguage(language string) Option {
	return func(a *Analyzer) {
		if trimmed := strings.ToLower(strings.TrimSpace(language)); trimmed != "" {
			a.defaultLanguage = trimmed
		}
	}
}

func WithPolicy(policy Policy) Option {
	return func(a *Analyzer) {
		if policy.Threshold >= 0 {
			a.policy.Threshold = policy.Threshold
		}
		if policy.ConfidenceScale > 0 {
			a.policy.ConfidenceScale = policy.ConfidenceScale
		}
	}
}

func New(tables *lexicon.Tables, opts ...Option) *Analyzer {
	a := &Analyzer{
		tables:          tables,
		defaultLanguage: lexicon.LanguagePortuguese,
		policy:          DefaultPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Analyze scores the polarity of text. It never fails: empty input, a missing
// lexicon or a recovered panic all yield the neutral result.
func (a *Analyzer) Analyze(text string) (result Result) {
	defer func() {
		if recover() != nil {
			result = Neutral()
		}
	}()

	if a == nil {
		return Neutral()
	}

	words := textnorm.Words(text)
	if len(words) == 0 {
		return Neutral()
	}

	lex, ok := a.lexiconFor(text)
	if !ok {
		return Neutral()
	}

	counts := WordCounts{TotalWords: len(words)}
	for _, word := range words {
		switch {
		case lex.Positive.Contains(word):
			counts.Positive++
		case lex.Negative.Contains(word):
			counts.Negative++
		case lex.Neutral.Contains(word):
			counts.Neutral++
		}
	}

	total := float64(max(1, counts.TotalWords))
	score := float64(counts.Positive-counts.Negative) / total
	confidence := math.Min(1, float64(counts.Positive+counts.Negative)/total*a.policy.ConfidenceScale)

	return Result{
		Score:      round(score, 3),
		Label:      a.label(score),
		Confidence: round(confidence, 3),
		WordCounts: counts,
		Language:   lex.Language,
	}
}

func (a *Analyzer) label(score float64) string {
	switch {
	case score > a.policy.Threshold:
		return LabelPositive
	case score < -a.policy.Threshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func (a *Analyzer) lexiconFor(text string) (lexicon.Sentiment, bool) {
	if a.detector != nil {
		if code := a.detector.DetectISO6391(text); code != "" {
			if lex, ok := a.tables.Sentiment(code); ok {
				return lex, true
			}
		}
	}
	return a.tables.Sentiment(a.defaultLanguage)
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
