package classify

import (
	"context"
	"math"
	"strings"
)

const (
	MethodKeyword    = "keyword"
	MethodGenerative = "generative"
	MethodDefault    = "default"

	messageNoCategory = "no category identified"
)

// Result is the classification contract shared by every strategy. Confidence is
// a calibration score in [0,1], not a probability.
type Result struct {
	SuggestedCategory *string            `json:"suggested_category"`
	Confidence        float64            `json:"confidence"`
	Scores            map[string]float64 `json:"scores"`
	Method            string             `json:"method"`
	Message           string             `json:"message,omitempty"`
	CategoryExists    *bool              `json:"category_exists,omitempty"`
}

// Suggested returns the suggested category name when one was chosen.
func (r Result) Suggested() (string, bool) {
	if r.SuggestedCategory == nil {
		return "", false
	}
	return *r.SuggestedCategory, true
}

// Category is a classification target owned by the caller.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FindCategory looks a category up by case-insensitive name.
func FindCategory(categories []Category, name string) (*Category, bool) {
	target := strings.TrimSpace(name)
	if target == "" {
		return nil, false
	}
	for i := range categories {
		if strings.EqualFold(strings.TrimSpace(categories[i].Name), target) {
			found := categories[i]
			return &found, true
		}
	}
	return nil, false
}

// Document is the text payload handed to a Classifier.
type Document struct {
	Title   string
	Summary string
	Content string
}

// Text joins the non-empty fields with single spaces.
func (d Document) Text() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{d.Title, d.Summary, d.Content} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// Classifier assigns one category from a closed set.
type Classifier interface {
	Classify(ctx context.Context, doc Document) (Result, error)
}

func stringPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
