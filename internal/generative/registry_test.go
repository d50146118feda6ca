package generative

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"horse.fit/newsanalysis/internal/config"
)

type stubBackend struct {
	name  string
	reply string
	calls int
}

func (b *stubBackend) Complete(context.Context, string, string) (string, error) {
	b.calls++
	return b.reply, nil
}

func (b *stubBackend) Name() string {
	return b.name
}

func TestRegistryResolvesDefaultAndNamedBackends(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(" Gemini ")
	openaiBackend := &stubBackend{name: "openai"}
	geminiBackend := &stubBackend{name: "gemini"}
	for _, backend := range []Backend{openaiBackend, geminiBackend} {
		if err := registry.Register(backend); err != nil {
			t.Fatalf("register backend: %v", err)
		}
	}

	got, err := registry.Backend("")
	if err != nil {
		t.Fatalf("resolve default backend: %v", err)
	}
	if got != geminiBackend {
		t.Fatalf("unexpected default backend: got %s want %s", got.Name(), geminiBackend.Name())
	}

	named, err := registry.Backend("OPENAI")
	if err != nil {
		t.Fatalf("resolve named backend: %v", err)
	}
	if named != openaiBackend {
		t.Fatalf("unexpected named backend: got %s", named.Name())
	}

	if _, err := registry.Backend("local"); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
	if names := registry.Names(); !reflect.DeepEqual(names, []string{"gemini", "openai"}) {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestRegistryWithoutBackends(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("")
	if registry.DefaultName() != DefaultProviderName {
		t.Fatalf("unexpected default name: got %q want %q", registry.DefaultName(), DefaultProviderName)
	}
	if _, err := registry.Backend(""); !errors.Is(err, ErrNoBackends) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrNoBackends)
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil backend registration to fail")
	}
}

func TestNewRegistryFromConfigWithoutKeysIsEmpty(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistryFromConfig(context.Background(), &config.Config{GenerativeProvider: "openai"})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if len(registry.Names()) != 0 {
		t.Fatalf("expected no backends without api keys, got %v", registry.Names())
	}
	if err := registry.Close(); err != nil {
		t.Fatalf("close registry: %v", err)
	}
}

func TestNewRegistryFromConfigRegistersOpenAI(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistryFromConfig(context.Background(), &config.Config{
		GenerativeProvider: "gemini",
		OpenAIAPIKey:       "sk-test",
		GenerativeTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if registry.DefaultName() != OpenAIProviderName {
		t.Fatalf("expected default to fall back to openai, got %q", registry.DefaultName())
	}
	backend, err := registry.Backend("")
	if err != nil {
		t.Fatalf("resolve backend: %v", err)
	}
	if backend.Name() != OpenAIProviderName {
		t.Fatalf("unexpected backend: %q", backend.Name())
	}
}

func TestWithRateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{name: "stub", reply: "ok"}
	limited := WithRateLimit(backend, 0.001, 1)

	if _, err := limited.Complete(context.Background(), "", ""); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := limited.Complete(ctx, "", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrUnavailable)
	}
	if backend.calls != 1 {
		t.Fatalf("unexpected backend calls: got %d want %d", backend.calls, 1)
	}

	if WithRateLimit(backend, 0, 1) != Backend(backend) {
		t.Fatalf("expected unlimited backend to be returned unchanged")
	}
}
