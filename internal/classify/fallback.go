package classify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type fallbackClassifier struct {
	primary  Classifier
	fallback Classifier
	logger   zerolog.Logger
}

// WithFallback returns a Classifier that answers with primary and switches to
// fallback whenever primary fails. Backend failures are logged, never returned.
func WithFallback(primary, fallback Classifier, logger zerolog.Logger) Classifier {
	return &fallbackClassifier{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *fallbackClassifier) Classify(ctx context.Context, doc Document) (Result, error) {
	if c.fallback == nil {
		return Result{}, fmt.Errorf("fallback classifier is required")
	}
	if c.primary == nil {
		return c.fallback.Classify(ctx, doc)
	}

	result, err := c.primary.Classify(ctx, doc)
	if err == nil {
		return result, nil
	}

	c.logger.Warn().
		Err(err).
		Str("title", doc.Title).
		Msg("primary classifier failed; using keyword fallback")

	// ctx may already be done here; the keyword path does no I/O.
	return c.fallback.Classify(context.WithoutCancel(ctx), doc)
}
