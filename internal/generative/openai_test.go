package generative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIProviderComplete(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1760000000,
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " Economia,0.8 "}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Timeout:     5 * time.Second,
		MaxTokens:   50,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	reply, err := provider.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Economia,0.8" {
		t.Fatalf("unexpected reply: got %q want %q", reply, "Economia,0.8")
	}
	if gotBody["model"] != DefaultOpenAIModel {
		t.Fatalf("unexpected model: got %v want %v", gotBody["model"], DefaultOpenAIModel)
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("unexpected message count: got %d want %d", len(messages), 2)
	}
}

func TestOpenAIProviderWrapsFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := provider.Complete(context.Background(), "system", "user"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrUnavailable)
	}
}

func TestProvidersRequireAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatalf("expected openai provider without key to fail")
	}
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: " "}); err == nil {
		t.Fatalf("expected gemini provider without key to fail")
	}
}
