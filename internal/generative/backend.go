package generative

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// ErrUnavailable marks transport, auth, quota and timeout failures of a backend.
var ErrUnavailable = errors.New("generative backend unavailable")

// Backend performs one text completion.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

type limitedBackend struct {
	Backend
	limiter *rate.Limiter
}

// WithRateLimit throttles calls to at most rps per second. A non-positive rps
// returns the backend unchanged.
func WithRateLimit(backend Backend, rps float64, burst int) Backend {
	if backend == nil || rps <= 0 {
		return backend
	}
	if burst < 1 {
		burst = 1
	}
	return &limitedBackend{
		Backend: backend,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (b *limitedBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %s rate limit: %w", ErrUnavailable, b.Name(), err)
	}
	return b.Backend.Complete(ctx, systemPrompt, userPrompt)
}
