package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/config"
	"horse.fit/newsanalysis/internal/entities"
	"horse.fit/newsanalysis/internal/extract"
	"horse.fit/newsanalysis/internal/generative"
	"horse.fit/newsanalysis/internal/langdetect"
	"horse.fit/newsanalysis/internal/lexicon"
	"horse.fit/newsanalysis/internal/logging"
	"horse.fit/newsanalysis/internal/sentiment"
)

// engine holds the analyzers shared by every command.
type engine struct {
	service   *analysis.Service
	extractor *extract.Extractor
	registry  *generative.Registry
	backend   string
}

// newEngine wires the analyzers from cfg. store may be nil for text-only use.
func newEngine(ctx context.Context, cfg *config.Config, logger zerolog.Logger, store analysis.Store) (*engine, error) {
	tables := lexicon.Default()

	analyzer := sentiment.New(tables,
		sentiment.WithDetector(langdetect.New(tables.Languages()...)),
		sentiment.WithDefaultLanguage(cfg.DefaultLanguage),
		sentiment.WithPolicy(sentiment.Policy{
			Threshold:       cfg.SentimentThreshold,
			ConfidenceScale: cfg.SentimentConfidenceScale,
		}),
	)
	extractor := entities.New(tables, entities.Options{
		Cap:            cfg.EntityCap,
		MinContextHits: cfg.ContextMinHits,
	})
	keyword := classify.NewKeywordClassifier(tables, classify.Options{
		Policy:            classify.Policy{ConfidenceDivisor: cfg.CategoryConfidenceDivisor},
		DynamicCategories: cfg.DynamicCategories,
	})

	registry, err := generative.NewRegistryFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build generative registry: %w", err)
	}

	var (
		fixed       classify.Classifier = classify.NewFixedKeywordClassifier(tables)
		newsReader                      = extract.New(nil, cfg.GenerativeTimeout, logging.Component(logger, "extract"))
		backendName string
	)
	if backend, err := registry.Backend(""); err == nil {
		backendName = backend.Name()
		fixed = classify.WithFallback(
			classify.NewGenerativeClassifier(backend, tables, cfg.GenerativeTimeout),
			fixed,
			logging.Component(logger, "classify"),
		)
		newsReader = extract.New(backend, cfg.GenerativeTimeout, logging.Component(logger, "extract"))
	}

	service, err := analysis.NewService(analysis.Deps{
		Sentiment: analyzer,
		Entities:  extractor,
		Keyword:   keyword,
		Fixed:     fixed,
		Store:     store,
		Logger:    logging.Component(logger, "analysis"),
		Workers:   cfg.AnalysisWorkers,
	})
	if err != nil {
		_ = registry.Close()
		return nil, fmt.Errorf("build analysis service: %w", err)
	}

	return &engine{
		service:   service,
		extractor: newsReader,
		registry:  registry,
		backend:   backendName,
	}, nil
}

func (e *engine) Close() error {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Close()
}
