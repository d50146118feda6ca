package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
)

// Decision tells the transport what to do with a delivered message.
type Decision string

const (
	// Ack removes the message; partial batch failures are still acked.
	Ack Decision = "ack"
	// Requeue asks for redelivery after a store or transient failure.
	Requeue Decision = "requeue"
	// Reject drops a malformed message without redelivery.
	Reject Decision = "reject"
)

var ErrNoStore = errors.New("news_ids require a configured store")

// Service is the analysis surface the handler drives.
type Service interface {
	AnalyzeText(title, summary, content string) analysis.AnalysisResult
	AnalyzeBatch(ctx context.Context, items []*analysis.Item, opts analysis.BatchOptions) (analysis.BatchOutcome, error)
	ClassifyBatch(ctx context.Context, items []*analysis.Item, categories []classify.Category) []analysis.Suggestion
	AutoAssign(ctx context.Context, suggestions []analysis.Suggestion, threshold float64) (analysis.AssignOutcome, error)
}

// Store loads the rows a request references.
type Store interface {
	LoadNews(ctx context.Context, ids []int64) ([]*analysis.Item, error)
	ListCategories(ctx context.Context) ([]classify.Category, error)
}

// Result is the outcome of one message.
type Result struct {
	Decision    Decision                  `json:"decision"`
	RequestID   string                    `json:"request_id,omitempty"`
	Type        string                    `json:"type,omitempty"`
	Reason      string                    `json:"reason,omitempty"`
	Batch       *analysis.BatchOutcome    `json:"batch,omitempty"`
	Analyses    []analysis.AnalysisResult `json:"analyses,omitempty"`
	Suggestions []analysis.Suggestion     `json:"suggestions,omitempty"`
	Assignment  *analysis.AssignOutcome   `json:"assignment,omitempty"`
}

type Handler struct {
	service Service
	store   Store
	logger  zerolog.Logger
}

// NewHandler builds a Handler. store may be nil when only inline items are
// expected.
func NewHandler(service Service, store Store, logger zerolog.Logger) *Handler {
	return &Handler{service: service, store: store, logger: logger}
}

func (h *Handler) Handle(ctx context.Context, body []byte) Result {
	if h == nil || h.service == nil {
		return Result{Decision: Requeue, Reason: "analysis service is not configured"}
	}

	req, err := ValidateRequest(body)
	if err != nil {
		h.logger.Warn().Err(err).Msg("rejecting invalid analysis request")
		return Result{Decision: Reject, Reason: err.Error()}
	}

	result := Result{RequestID: req.RequestID, Type: req.Type}

	var handleErr error
	switch req.Type {
	case TypeAnalyze:
		handleErr = h.handleAnalyze(ctx, req, &result)
	case TypeClassify:
		handleErr = h.handleClassify(ctx, req, &result)
	default:
		handleErr = fmt.Errorf("unsupported request type %q", req.Type)
	}

	switch {
	case handleErr == nil:
		result.Decision = Ack
	case errors.Is(handleErr, ErrNoStore):
		result.Decision = Reject
		result.Reason = handleErr.Error()
	default:
		result.Decision = Requeue
		result.Reason = handleErr.Error()
	}

	h.logger.Info().
		Str("request_id", req.RequestID).
		Str("type", req.Type).
		Str("decision", string(result.Decision)).
		Str("reason", result.Reason).
		Msg("analysis request handled")
	return result
}

func (h *Handler) handleAnalyze(ctx context.Context, req *Request, result *Result) error {
	if len(req.Items) > 0 {
		result.Analyses = make([]analysis.AnalysisResult, 0, len(req.Items))
		for _, item := range req.Items {
			result.Analyses = append(result.Analyses, h.service.AnalyzeText(item.Title, item.Summary, item.Content))
		}
		return nil
	}

	items, err := h.loadNews(ctx, req.NewsIDs)
	if err != nil {
		return err
	}
	outcome, err := h.service.AnalyzeBatch(ctx, items, analysis.BatchOptions{Force: req.Force})
	if err != nil {
		return fmt.Errorf("analyze batch: %w", err)
	}
	result.Batch = &outcome
	return nil
}

func (h *Handler) handleClassify(ctx context.Context, req *Request, result *Result) error {
	var (
		items      []*analysis.Item
		categories []classify.Category
	)
	if len(req.Items) > 0 {
		items = make([]*analysis.Item, 0, len(req.Items))
		for _, inline := range req.Items {
			items = append(items, &analysis.Item{
				ID:      inline.ID,
				Title:   inline.Title,
				Summary: inline.Summary,
				Content: inline.Content,
			})
		}
		if h.store != nil {
			loaded, err := h.store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			categories = loaded
		}
	} else {
		loaded, err := h.loadNews(ctx, req.NewsIDs)
		if err != nil {
			return err
		}
		items = loaded
		if categories, err = h.store.ListCategories(ctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
	}

	result.Suggestions = h.service.ClassifyBatch(ctx, items, categories)
	if !req.AutoAssign {
		return nil
	}

	threshold := analysis.DefaultAutoAssignThreshold
	if req.ConfidenceThreshold != nil {
		threshold = *req.ConfidenceThreshold
	}
	outcome, err := h.service.AutoAssign(ctx, result.Suggestions, threshold)
	if err != nil {
		return fmt.Errorf("auto-assign categories: %w", err)
	}
	result.Assignment = &outcome
	return nil
}

func (h *Handler) loadNews(ctx context.Context, ids []int64) ([]*analysis.Item, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	items, err := h.store.LoadNews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load news items: %w", err)
	}
	return items, nil
}
