package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

const sample = "Governo anuncia novo pacote econômico\n\n" +
	"O ministro da Fazenda apresentou nesta segunda-feira medidas para conter a inflação. " +
	"O pacote inclui cortes de gastos de R$ 3.5 bilhões. Analistas avaliam o impacto nos juros."

func TestFallbackHeuristics(t *testing.T) {
	t.Parallel()

	got := Fallback(sample)
	if got.Method != MethodFallback {
		t.Fatalf("unexpected method: got %q want %q", got.Method, MethodFallback)
	}
	if got.Title != "Governo anuncia novo pacote econômico" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	wantSummary := "Governo anuncia novo pacote econômico O ministro da Fazenda apresentou nesta segunda-feira medidas para conter a inflação. " +
		"O pacote inclui cortes de gastos de R$ 3.5 bilhões."
	if got.Summary != wantSummary {
		t.Fatalf("unexpected summary: got %q want %q", got.Summary, wantSummary)
	}
	if got.Source != UnknownSource {
		t.Fatalf("unexpected source: got %q want %q", got.Source, UnknownSource)
	}
	if got.Content != strings.TrimSpace(sample) {
		t.Fatalf("expected content to be the original text")
	}
}

func TestFallbackCapsLongTitleAndSummary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("palavra ", 40)
	got := Fallback(long)
	if n := len([]rune(got.Title)); n != titleLimit {
		t.Fatalf("unexpected title length: got %d want %d", n, titleLimit)
	}
	if !strings.HasSuffix(got.Title, ellipsis) {
		t.Fatalf("expected truncated title to end with %q: %q", ellipsis, got.Title)
	}
	if n := len([]rune(got.Summary)); n != summaryLimit+len(ellipsis) {
		t.Fatalf("unexpected summary length: got %d want %d", n, summaryLimit+len(ellipsis))
	}
}

func TestExtractUsesGenerativeReply(t *testing.T) {
	t.Parallel()

	backend := &stubCompleter{reply: "```json\n{\"title\": \"Pacote econômico\", \"content\": \"\", \"summary\": \"Governo corta gastos.\", \"source\": \"\"}\n```"}
	extractor := New(backend, 0, zerolog.Nop())

	got, err := extractor.Extract(context.Background(), sample)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("unexpected backend calls: got %d want %d", backend.calls, 1)
	}
	if got.Method != MethodGenerative {
		t.Fatalf("unexpected method: got %q want %q", got.Method, MethodGenerative)
	}
	if got.Title != "Pacote econômico" || got.Summary != "Governo corta gastos." {
		t.Fatalf("unexpected fields: %+v", got.Fields)
	}
	if got.Content != strings.TrimSpace(sample) {
		t.Fatalf("expected empty content to default to the input")
	}
	if got.Source != UnknownSource {
		t.Fatalf("unexpected source: got %q want %q", got.Source, UnknownSource)
	}
}

func TestExtractFallsBackOnBackendFailure(t *testing.T) {
	t.Parallel()

	for _, backend := range []*stubCompleter{
		{err: errors.New("quota exceeded")},
		{reply: "não sei"},
	} {
		got, err := New(backend, 0, zerolog.Nop()).Extract(context.Background(), sample)
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if got.Method != MethodFallback {
			t.Fatalf("unexpected method: got %q want %q", got.Method, MethodFallback)
		}
	}
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	var extractor *Extractor
	if _, err := extractor.Extract(context.Background(), "  \n "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrEmptyContent)
	}
}
