package analysis

import (
	"time"
	"unicode/utf8"

	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/sentiment"
	"horse.fit/newsanalysis/internal/textnorm"
)

// AnalysisResult is everything written back onto a news item by one analysis.
type AnalysisResult struct {
	SentimentScore      float64              `json:"sentiment_score"`
	SentimentLabel      string               `json:"sentiment_label"`
	SentimentConfidence float64              `json:"sentiment_confidence"`
	WordCounts          sentiment.WordCounts `json:"word_counts"`
	TitleSentiment      sentiment.Result     `json:"title_sentiment"`
	Entities            map[string][]string  `json:"entities"`
	Contexts            []string             `json:"contexts"`
	Language            string               `json:"language,omitempty"`
	TextStats           TextStats            `json:"text_stats"`
	AnalyzedAt          time.Time            `json:"analyzed_at"`
}

type TextStats struct {
	TitleLength   int `json:"title_length"`
	SummaryLength int `json:"summary_length"`
	ContentLength int `json:"content_length"`
	TotalWords    int `json:"total_words"`
}

// Item adapts a stored news row to the fields analysis reads and writes.
type Item struct {
	ID         int64
	Title      string
	Summary    string
	Content    string
	CategoryID *int64
	AnalyzedAt *time.Time
	Analysis   *AnalysisResult
}

func (i *Item) Document() classify.Document {
	return classify.Document{Title: i.Title, Summary: i.Summary, Content: i.Content}
}

// Analyzed reports whether the item carries an analysis timestamp.
func (i *Item) Analyzed() bool {
	return i != nil && i.AnalyzedAt != nil && !i.AnalyzedAt.IsZero()
}

// ItemError is one failed item of a batch.
type ItemError struct {
	ItemID  int64  `json:"item_id"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// BatchOutcome reports a batch run. Processed plus Errors never exceeds Total;
// items skipped as already analyzed count only toward Filtered.
type BatchOutcome struct {
	RunID        string      `json:"run_id"`
	Total        int         `json:"total"`
	Processed    int         `json:"processed"`
	Errors       int         `json:"errors"`
	ErrorDetails []ItemError `json:"error_details"`
	Filtered     int         `json:"filtered"`
}

type BatchOptions struct {
	Force   bool
	Workers int
}

// Suggestion is one row of a classify batch.
type Suggestion struct {
	ItemID         int64              `json:"item_id"`
	Title          string             `json:"title"`
	Classification classify.Result    `json:"classification"`
	Category       *classify.Category `json:"category,omitempty"`
}

// AssignOutcome reports an auto-assignment pass over suggestions.
type AssignOutcome struct {
	Total           int         `json:"total"`
	Assigned        int         `json:"assigned"`
	BelowThreshold  int         `json:"below_threshold"`
	UnknownCategory int         `json:"unknown_category"`
	Errors          int         `json:"errors"`
	ErrorDetails    []ItemError `json:"error_details"`
}

func textStats(title, summary, content string) TextStats {
	return TextStats{
		TitleLength:   utf8.RuneCountInString(title),
		SummaryLength: utf8.RuneCountInString(summary),
		ContentLength: utf8.RuneCountInString(content),
		TotalWords:    len(textnorm.Words(title + " " + summary + " " + content)),
	}
}
