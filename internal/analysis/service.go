package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/entities"
	"horse.fit/newsanalysis/internal/globaltime"
	"horse.fit/newsanalysis/internal/sentiment"
)

const (
	DefaultAutoAssignThreshold = 0.3
	DefaultWorkers             = 1
)

var (
	ErrNilItem = errors.New("item is nil")
	ErrNoStore = errors.New("analysis store is not configured")
)

// Store persists analysis write-back. SaveAnalysis must update every analysis
// field of the row or none of them.
type Store interface {
	SaveAnalysis(ctx context.Context, id int64, result AnalysisResult) error
	AssignCategory(ctx context.Context, id int64, categoryID int64) error
}

type Deps struct {
	Sentiment *sentiment.Analyzer
	Entities  *entities.Extractor
	Keyword   *classify.KeywordClassifier
	// Fixed classifies against the closed canonical category set, usually a
	// generative classifier wrapped with a keyword fallback.
	Fixed   classify.Classifier
	Store   Store
	Logger  zerolog.Logger
	Workers int
}

// Service runs the analyzers over news items and writes results back.
type Service struct {
	sentiment *sentiment.Analyzer
	entities  *entities.Extractor
	keyword   *classify.KeywordClassifier
	fixed     classify.Classifier
	store     Store
	logger    zerolog.Logger
	workers   int
	locks     *keyedMutex
}

func NewService(deps Deps) (*Service, error) {
	if deps.Sentiment == nil {
		return nil, fmt.Errorf("sentiment analyzer is required")
	}
	if deps.Entities == nil {
		return nil, fmt.Errorf("entity extractor is required")
	}
	if deps.Keyword == nil {
		return nil, fmt.Errorf("keyword classifier is required")
	}
	if deps.Fixed == nil {
		return nil, fmt.Errorf("fixed-set classifier is required")
	}

	workers := deps.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	return &Service{
		sentiment: deps.Sentiment,
		entities:  deps.Entities,
		keyword:   deps.Keyword,
		fixed:     deps.Fixed,
		store:     deps.Store,
		logger:    deps.Logger,
		workers:   workers,
		locks:     newKeyedMutex(),
	}, nil
}

// AnalyzeText computes an analysis without touching any store.
func (s *Service) AnalyzeText(title, summary, content string) AnalysisResult {
	text := classify.Document{Title: title, Summary: summary, Content: content}.Text()
	overall := s.sentiment.Analyze(text)

	return AnalysisResult{
		SentimentScore:      overall.Score,
		SentimentLabel:      overall.Label,
		SentimentConfidence: overall.Confidence,
		WordCounts:          overall.WordCounts,
		TitleSentiment:      s.sentiment.Analyze(title),
		Entities:            s.entities.Extract(text),
		Contexts:            s.entities.Contexts(text),
		Language:            overall.Language,
		TextStats:           textStats(title, summary, content),
		AnalyzedAt:          globaltime.UTC(),
	}
}

// AnalyzeOne analyzes item and writes the result back. The in-memory item is
// updated only after the store accepted the result.
func (s *Service) AnalyzeOne(ctx context.Context, item *Item) (AnalysisResult, error) {
	if s == nil {
		return AnalysisResult{}, fmt.Errorf("analysis service is nil")
	}
	if item == nil {
		return AnalysisResult{}, ErrNilItem
	}
	if s.store == nil {
		return AnalysisResult{}, ErrNoStore
	}
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}

	unlock := s.locks.Lock(item.ID)
	defer unlock()

	result := s.AnalyzeText(item.Title, item.Summary, item.Content)
	if err := s.store.SaveAnalysis(ctx, item.ID, result); err != nil {
		return AnalysisResult{}, fmt.Errorf("save analysis for item %d: %w", item.ID, err)
	}

	analyzedAt := result.AnalyzedAt
	item.AnalyzedAt = &analyzedAt
	item.Analysis = &result
	return result, nil
}

// AnalyzeBatch analyzes items, isolating per-item failures. Without Force,
// already analyzed items are filtered out before counting. Error details keep
// input order regardless of worker count.
func (s *Service) AnalyzeBatch(ctx context.Context, items []*Item, opts BatchOptions) (BatchOutcome, error) {
	if s == nil {
		return BatchOutcome{}, fmt.Errorf("analysis service is nil")
	}

	outcome := BatchOutcome{
		RunID:        uuid.NewString(),
		ErrorDetails: []ItemError{},
	}

	pending := make([]*Item, 0, len(items))
	for _, item := range items {
		if !opts.Force && item.Analyzed() {
			outcome.Filtered++
			continue
		}
		pending = append(pending, item)
	}
	outcome.Total = len(pending)
	if outcome.Total == 0 {
		return outcome, nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = s.workers
	}
	workers = min(workers, len(pending))

	failures := make([]error, len(pending))
	var group errgroup.Group
	group.SetLimit(workers)
	for i, item := range pending {
		group.Go(func() error {
			failures[i] = s.analyzeIsolated(ctx, item)
			return nil
		})
	}
	_ = group.Wait()

	for i, err := range failures {
		if err == nil {
			outcome.Processed++
			continue
		}
		outcome.Errors++
		outcome.ErrorDetails = append(outcome.ErrorDetails, itemError(pending[i], err))
	}

	s.logger.Info().
		Str("run_id", outcome.RunID).
		Int("total", outcome.Total).
		Int("processed", outcome.Processed).
		Int("errors", outcome.Errors).
		Int("filtered", outcome.Filtered).
		Int("workers", workers).
		Msg("analysis batch finished")

	return outcome, nil
}

func (s *Service) analyzeIsolated(ctx context.Context, item *Item) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic during analysis: %v", recovered)
		}
	}()

	if _, err := s.AnalyzeOne(ctx, item); err != nil {
		s.logger.Warn().Err(err).Int64("item_id", itemID(item)).Msg("item analysis failed")
		return err
	}
	return nil
}

// ClassifyOne runs the keyword classifier against categories and returns the
// matching category row when the suggestion names one.
func (s *Service) ClassifyOne(_ context.Context, item *Item, categories []classify.Category) (classify.Result, *classify.Category, error) {
	if s == nil {
		return classify.Result{}, nil, fmt.Errorf("analysis service is nil")
	}
	if item == nil {
		return classify.Result{}, nil, ErrNilItem
	}

	result := s.keyword.Classify(item.Document().Text(), categories)
	name, ok := result.Suggested()
	if !ok {
		return result, nil, nil
	}
	category, _ := classify.FindCategory(categories, name)
	return result, category, nil
}

// ClassifyBatch maps ClassifyOne over items in input order. Nil entries have no
// row to report and are logged and left out. When ctx is done the remaining
// items are left out as well.
func (s *Service) ClassifyBatch(ctx context.Context, items []*Item, categories []classify.Category) []Suggestion {
	suggestions := make([]Suggestion, 0, len(items))
	if s == nil {
		return suggestions
	}
	for index, item := range items {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Err(err).Int("classified", len(suggestions)).Int("skipped", len(items)-index).Msg("classification batch interrupted")
			break
		}
		result, category, err := s.ClassifyOne(ctx, item, categories)
		if err != nil {
			s.logger.Warn().Err(err).Int("index", index).Msg("item classification skipped")
			continue
		}
		suggestions = append(suggestions, Suggestion{
			ItemID:         item.ID,
			Title:          item.Title,
			Classification: result,
			Category:       category,
		})
	}
	return suggestions
}

// ClassifyFixed classifies item against the closed canonical category set.
func (s *Service) ClassifyFixed(ctx context.Context, item *Item) (classify.Result, error) {
	if s == nil {
		return classify.Result{}, fmt.Errorf("analysis service is nil")
	}
	if item == nil {
		return classify.Result{}, ErrNilItem
	}
	return s.fixed.Classify(ctx, item.Document())
}

// AutoAssign stores the suggested category of every suggestion whose
// confidence reaches threshold and whose category already exists. A
// negative threshold uses DefaultAutoAssignThreshold; zero assigns every
// suggestion with a known category.
func (s *Service) AutoAssign(ctx context.Context, suggestions []Suggestion, threshold float64) (AssignOutcome, error) {
	if s == nil {
		return AssignOutcome{}, fmt.Errorf("analysis service is nil")
	}
	if s.store == nil {
		return AssignOutcome{}, ErrNoStore
	}
	if threshold < 0 {
		threshold = DefaultAutoAssignThreshold
	}

	outcome := AssignOutcome{
		Total:        len(suggestions),
		ErrorDetails: []ItemError{},
	}
	for _, suggestion := range suggestions {
		if suggestion.Classification.SuggestedCategory == nil || suggestion.Classification.Confidence < threshold {
			outcome.BelowThreshold++
			continue
		}
		if suggestion.Category == nil {
			outcome.UnknownCategory++
			continue
		}

		if err := s.assign(ctx, suggestion.ItemID, suggestion.Category.ID); err != nil {
			outcome.Errors++
			outcome.ErrorDetails = append(outcome.ErrorDetails, ItemError{
				ItemID:  suggestion.ItemID,
				Title:   suggestion.Title,
				Message: err.Error(),
			})
			continue
		}
		outcome.Assigned++
	}

	s.logger.Info().
		Int("total", outcome.Total).
		Int("assigned", outcome.Assigned).
		Int("below_threshold", outcome.BelowThreshold).
		Int("unknown_category", outcome.UnknownCategory).
		Int("errors", outcome.Errors).
		Float64("threshold", threshold).
		Msg("category auto-assignment finished")

	return outcome, nil
}

func (s *Service) assign(ctx context.Context, itemID, categoryID int64) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic during category assignment: %v", recovered)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.locks.Lock(itemID)
	defer unlock()

	if err := s.store.AssignCategory(ctx, itemID, categoryID); err != nil {
		return fmt.Errorf("assign category %d to item %d: %w", categoryID, itemID, err)
	}
	return nil
}

func itemError(item *Item, err error) ItemError {
	detail := ItemError{Message: err.Error()}
	if item != nil {
		detail.ItemID = item.ID
		detail.Title = item.Title
	}
	return detail
}

func itemID(item *Item) int64 {
	if item == nil {
		return 0
	}
	return item.ID
}
