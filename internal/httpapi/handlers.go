package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/db"
	"horse.fit/newsanalysis/internal/extract"
	"horse.fit/newsanalysis/internal/reader"
)

type textRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

func (r textRequest) item() *analysis.Item {
	return &analysis.Item{Title: r.Title, Summary: r.Summary, Content: r.Content}
}

func (r textRequest) validate() map[string]string {
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Summary) == "" && strings.TrimSpace(r.Content) == "" {
		return map[string]string{"content": "title, summary or content is required"}
	}
	return nil
}

type extractRequest struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}

type analyzeBatchRequest struct {
	NewsIDs []int64 `json:"news_ids"`
	Force   bool    `json:"force"`
	Workers int     `json:"workers"`
}

type classifyBatchRequest struct {
	NewsIDs             []int64  `json:"news_ids"`
	AutoAssign          bool     `json:"auto_assign"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

type classifyResponse struct {
	Classification classify.Result    `json:"classification"`
	Category       *classify.Category `json:"category"`
}

type classifyBatchResponse struct {
	Suggestions []analysis.Suggestion   `json:"suggestions"`
	Assignment  *analysis.AssignOutcome `json:"assignment,omitempty"`
}

type newsAnalysisResponse struct {
	ItemID   int64                   `json:"item_id"`
	Analysis analysis.AnalysisResult `json:"analysis"`
}

func (s *Server) handleHealth(c echo.Context) error {
	payload := map[string]any{
		"service": "newsanalysis",
		"store":   "disabled",
	}
	if s.store == nil {
		return success(c, payload)
	}

	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("database health check failed")
		payload["store"] = "unavailable"
		return failUnavailable(c, "Database unavailable", payload)
	}
	payload["store"] = "ok"
	return success(c, payload)
}

func (s *Server) handleCategories(c echo.Context) error {
	if s.store == nil {
		return s.failNoStore(c)
	}
	categories, err := s.store.ListCategories(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list categories failed")
		return internalError(c, "Failed to load categories")
	}
	return success(c, map[string]any{"categories": categories})
}

func (s *Server) handleAnalyzeText(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		return failValidation(c, fieldErrors)
	}
	return success(c, s.service.AnalyzeText(req.Title, req.Summary, req.Content))
}

func (s *Server) handleClassify(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		return failValidation(c, fieldErrors)
	}

	ctx := c.Request().Context()
	var categories []classify.Category
	if s.store != nil {
		loaded, err := s.store.ListCategories(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("list categories failed")
			return internalError(c, "Failed to load categories")
		}
		categories = loaded
	}

	result, category, err := s.service.ClassifyOne(ctx, req.item(), categories)
	if err != nil {
		return internalError(c, "Classification failed")
	}
	return success(c, classifyResponse{Classification: result, Category: category})
}

func (s *Server) handleClassifyFixed(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		return failValidation(c, fieldErrors)
	}

	result, err := s.service.ClassifyFixed(c.Request().Context(), req.item())
	if err != nil {
		s.logger.Error().Err(err).Msg("fixed classification failed")
		return internalError(c, "Classification failed")
	}
	return success(c, result)
}

func (s *Server) handleExtract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}

	ctx := c.Request().Context()
	content := req.Content
	if pageURL := strings.TrimSpace(req.URL); pageURL != "" && strings.TrimSpace(content) == "" {
		page, err := reader.Fetch(ctx, pageURL, reader.FetchOptions{})
		if err != nil {
			s.logger.Warn().Err(err).Str("url", pageURL).Msg("fetch page failed")
			return fail(c, http.StatusBadGateway, "Failed to fetch url", nil)
		}
		content = strings.TrimSpace(page.Title + "\n" + page.Text)
	}

	result, err := s.extractor.Extract(ctx, content)
	if errors.Is(err, extract.ErrEmptyContent) {
		return failValidation(c, map[string]string{"content": "content or url is required"})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("extraction failed")
		return internalError(c, "Extraction failed")
	}
	return success(c, result)
}

func (s *Server) handleAnalyzeNews(c echo.Context) error {
	if s.store == nil {
		return s.failNoStore(c)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return failValidation(c, map[string]string{"id": "must be a positive integer"})
	}

	ctx := c.Request().Context()
	item, err := s.store.GetNews(ctx, id)
	if db.IsNotFound(err) {
		return failNotFound(c, "News item not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("item_id", id).Msg("load news item failed")
		return internalError(c, "Failed to load news item")
	}

	result, err := s.service.AnalyzeOne(ctx, item)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return failUnavailable(c, "Request cancelled", nil)
		}
		s.logger.Error().Err(err).Int64("item_id", id).Msg("analyze news item failed")
		return internalError(c, "Analysis failed")
	}
	return success(c, newsAnalysisResponse{ItemID: id, Analysis: result})
}

func (s *Server) handleAnalyzeNewsBatch(c echo.Context) error {
	if s.store == nil {
		return s.failNoStore(c)
	}

	var req analyzeBatchRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	fieldErrors := map[string]string{}
	if req.Workers < 0 {
		fieldErrors["workers"] = "must be zero or positive"
	}
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultBatchLimit, 1, maxBatchLimit)
	if err != nil {
		fieldErrors["limit"] = err.Error()
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	ctx := c.Request().Context()
	var items []*analysis.Item
	if len(req.NewsIDs) > 0 {
		items, err = s.store.LoadNews(ctx, req.NewsIDs)
	} else {
		items, err = s.store.ListPending(ctx, limit)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load news batch failed")
		return internalError(c, "Failed to load news items")
	}

	outcome, err := s.service.AnalyzeBatch(ctx, items, analysis.BatchOptions{Force: req.Force, Workers: req.Workers})
	if err != nil {
		s.logger.Error().Err(err).Msg("analyze batch failed")
		return internalError(c, "Batch analysis failed")
	}
	return success(c, outcome)
}

func (s *Server) handleClassifyNewsBatch(c echo.Context) error {
	if s.store == nil {
		return s.failNoStore(c)
	}

	var req classifyBatchRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object"})
	}
	fieldErrors := map[string]string{}
	if len(req.NewsIDs) == 0 {
		fieldErrors["news_ids"] = "at least one id is required"
	}
	threshold := s.assignThreshold
	if req.ConfidenceThreshold != nil {
		threshold = *req.ConfidenceThreshold
		if threshold < 0 || threshold > 1 {
			fieldErrors["confidence_threshold"] = "must be between 0 and 1"
		}
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	ctx := c.Request().Context()
	items, err := s.store.LoadNews(ctx, req.NewsIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("load news batch failed")
		return internalError(c, "Failed to load news items")
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list categories failed")
		return internalError(c, "Failed to load categories")
	}

	resp := classifyBatchResponse{Suggestions: s.service.ClassifyBatch(ctx, items, categories)}
	if req.AutoAssign {
		outcome, err := s.service.AutoAssign(ctx, resp.Suggestions, threshold)
		if err != nil {
			s.logger.Error().Err(err).Msg("auto-assign failed")
			return internalError(c, "Auto-assign failed")
		}
		resp.Assignment = &outcome
	}
	return success(c, resp)
}

func (s *Server) failNoStore(c echo.Context) error {
	return failUnavailable(c, "News store is not configured", nil)
}
