package generative

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"horse.fit/newsanalysis/internal/config"
)

const (
	// DefaultProviderName is used when GENERATIVE_PROVIDER is unset.
	DefaultProviderName = OpenAIProviderName

	completionMaxTokens   = 800
	completionTemperature = 0.1
)

var ErrNoBackends = errors.New("no generative backends are registered")

// Registry stores generative backends and resolves a default one.
type Registry struct {
	backends       map[string]Backend
	defaultBackend string
	closers        []io.Closer
}

func NewRegistry(defaultBackend string) *Registry {
	normalizedDefault := normalizeBackendName(defaultBackend)
	if normalizedDefault == "" {
		normalizedDefault = DefaultProviderName
	}

	return &Registry{
		backends:       make(map[string]Backend),
		defaultBackend: normalizedDefault,
	}
}

// NewRegistryFromConfig registers every backend with credentials present. A
// registry with no backends is valid; callers then run keyword-only.
func NewRegistryFromConfig(ctx context.Context, cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	registry := NewRegistry(cfg.GenerativeProvider)

	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		provider, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Timeout:     cfg.GenerativeTimeout,
			MaxTokens:   completionMaxTokens,
			Temperature: completionTemperature,
		})
		if err != nil {
			return nil, err
		}
		if err := registry.Register(WithRateLimit(provider, cfg.GenerativeRPS, 1)); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		provider, err := NewGeminiProvider(ctx, GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			MaxTokens:   completionMaxTokens,
			Temperature: completionTemperature,
		})
		if err != nil {
			_ = registry.Close()
			return nil, err
		}
		registry.closers = append(registry.closers, provider)
		if err := registry.Register(WithRateLimit(provider, cfg.GenerativeRPS, 1)); err != nil {
			_ = registry.Close()
			return nil, err
		}
	}

	if _, exists := registry.backends[registry.defaultBackend]; !exists {
		for _, name := range registry.Names() {
			registry.defaultBackend = name
			break
		}
	}

	return registry, nil
}

// Register adds one backend.
func (r *Registry) Register(backend Backend) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if backend == nil {
		return fmt.Errorf("backend is nil")
	}
	name := normalizeBackendName(backend.Name())
	if name == "" {
		return fmt.Errorf("backend name is required")
	}
	r.backends[name] = backend
	return nil
}

// Backend resolves a backend by name. Empty names use the configured default.
func (r *Registry) Backend(name string) (Backend, error) {
	if r == nil || len(r.backends) == 0 {
		return nil, ErrNoBackends
	}

	resolvedName := normalizeBackendName(name)
	if resolvedName == "" {
		resolvedName = r.defaultBackend
	}
	backend, ok := r.backends[resolvedName]
	if ok {
		return backend, nil
	}

	return nil, fmt.Errorf("generative backend %q is not registered (available: %s)", resolvedName, strings.Join(r.Names(), ", "))
}

func (r *Registry) DefaultName() string {
	if r == nil {
		return ""
	}
	return r.defaultBackend
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases backend clients that hold connections.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, closer := range r.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func normalizeBackendName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
