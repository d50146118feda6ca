package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/extract"
)

const (
	defaultBatchLimit = 100
	maxBatchLimit     = 1000
	maxBodyBytes      = "2M"
)

// Service is the analysis surface exposed over HTTP.
type Service interface {
	AnalyzeText(title, summary, content string) analysis.AnalysisResult
	AnalyzeOne(ctx context.Context, item *analysis.Item) (analysis.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, items []*analysis.Item, opts analysis.BatchOptions) (analysis.BatchOutcome, error)
	ClassifyOne(ctx context.Context, item *analysis.Item, categories []classify.Category) (classify.Result, *classify.Category, error)
	ClassifyBatch(ctx context.Context, items []*analysis.Item, categories []classify.Category) []analysis.Suggestion
	ClassifyFixed(ctx context.Context, item *analysis.Item) (classify.Result, error)
	AutoAssign(ctx context.Context, suggestions []analysis.Suggestion, threshold float64) (analysis.AssignOutcome, error)
}

// Store reads news items and categories. A nil Store disables the /news routes.
type Store interface {
	GetNews(ctx context.Context, id int64) (*analysis.Item, error)
	LoadNews(ctx context.Context, ids []int64) ([]*analysis.Item, error)
	ListPending(ctx context.Context, limit int) ([]*analysis.Item, error)
	ListCategories(ctx context.Context) ([]classify.Category, error)
	Ping(ctx context.Context) error
}

type Extractor interface {
	Extract(ctx context.Context, raw string) (extract.Result, error)
}

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	// AutoAssignThreshold applies when a classify request sets none. Nil uses
	// analysis.DefaultAutoAssignThreshold.
	AutoAssignThreshold *float64
}

type Server struct {
	service   Service
	store     Store
	extractor Extractor
	logger    zerolog.Logger
	opts      Options

	assignThreshold float64
}

func NewServer(service Service, store Store, extractor Extractor, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	if extractor == nil {
		extractor = extract.New(nil, 0, logger)
	}
	threshold := analysis.DefaultAutoAssignThreshold
	if opts.AutoAssignThreshold != nil {
		threshold = *opts.AutoAssignThreshold
	}

	return &Server{
		service:   service,
		store:     store,
		extractor: extractor,
		logger:    logger,
		opts: Options{
			Host:                host,
			Port:                port,
			ReadTimeout:         readTimeout,
			WriteTimeout:        writeTimeout,
			ShutdownTimeout:     shutdownTimeout,
			AllowedOrigins:      allowedOrigins,
			AutoAssignThreshold: &threshold,
		},
		assignThreshold: threshold,
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.service == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.newEcho()
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Bool("store", s.store != nil).Msg("newsanalysis api started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("newsanalysis api stopped")
	return nil
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/categories", s.handleCategories)
	api.POST("/analyze", s.handleAnalyzeText)
	api.POST("/classify", s.handleClassify)
	api.POST("/classify/fixed", s.handleClassifyFixed)
	api.POST("/extract", s.handleExtract)
	api.POST("/news/analyze", s.handleAnalyzeNewsBatch)
	api.POST("/news/classify", s.handleClassifyNewsBatch)
	api.POST("/news/:id/analyze", s.handleAnalyzeNews)

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
