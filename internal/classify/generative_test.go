package classify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/lexicon"
)

type stubCompleter struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
	deadline   bool
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubClassifier struct {
	result Result
	err    error
	calls  int
}

func (s *stubClassifier) Classify(context.Context, Document) (Result, error) {
	s.calls++
	return s.result, s.err
}

func TestGenerativeClassifierResolvesReplies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		reply          string
		wantCategory   string
		wantConfidence float64
	}{
		{reply: "Economia,0.85", wantCategory: "Economia", wantConfidence: 0.85},
		{reply: "economia, 0,9", wantCategory: "Economia", wantConfidence: 0.9},
		{reply: "Tech,0.9", wantCategory: "Tecnologia", wantConfidence: 0.7},
		{reply: "Esportes e lazer,0.4", wantCategory: "Esportes", wantConfidence: 0.3},
		{reply: "Saúde,abc", wantCategory: "Saúde", wantConfidence: 0.5},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.reply, func(t *testing.T) {
			t.Parallel()

			backend := &stubCompleter{reply: tc.reply}
			classifier := NewGenerativeClassifier(backend, lexicon.Default(), time.Second)
			got, err := classifier.Classify(context.Background(), Document{Title: "Título", Content: "Conteúdo"})
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if name, _ := got.Suggested(); name != tc.wantCategory {
				t.Fatalf("unexpected category: got %q want %q", name, tc.wantCategory)
			}
			if got.Confidence != tc.wantConfidence {
				t.Fatalf("unexpected confidence: got %v want %v", got.Confidence, tc.wantConfidence)
			}
			if got.Method != MethodGenerative {
				t.Fatalf("unexpected method: got %q want %q", got.Method, MethodGenerative)
			}
			if !backend.deadline {
				t.Fatalf("expected backend call to carry a deadline")
			}
		})
	}
}

func TestGenerativeClassifierPrompt(t *testing.T) {
	t.Parallel()

	backend := &stubCompleter{reply: "Cultura,0.6"}
	classifier := NewGenerativeClassifier(backend, lexicon.Default(), 0)
	content := strings.Repeat("á", 1500)

	if _, err := classifier.Classify(context.Background(), Document{Title: "Festival", Summary: "Resumo curto", Content: content}); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(backend.lastSystem, "Meio Ambiente") {
		t.Fatalf("system prompt does not list categories: %q", backend.lastSystem)
	}
	if !strings.Contains(backend.lastUser, "Resumo: Resumo curto") {
		t.Fatalf("user prompt missing summary: %q", backend.lastUser)
	}
	if strings.Contains(backend.lastUser, strings.Repeat("á", 1001)) {
		t.Fatalf("expected content to be truncated to 1000 runes")
	}
}

func TestGenerativeClassifierPropagatesBackendErrors(t *testing.T) {
	t.Parallel()

	backendErr := errors.New("connection refused")
	classifier := NewGenerativeClassifier(&stubCompleter{err: backendErr}, lexicon.Default(), time.Second)
	if _, err := classifier.Classify(context.Background(), Document{Title: "x"}); !errors.Is(err, backendErr) {
		t.Fatalf("unexpected error: got %v want %v", err, backendErr)
	}

	empty := NewGenerativeClassifier(&stubCompleter{reply: "  "}, lexicon.Default(), time.Second)
	if _, err := empty.Classify(context.Background(), Document{Title: "x"}); err == nil {
		t.Fatalf("expected empty reply to fail")
	}

	missing := NewGenerativeClassifier(nil, lexicon.Default(), time.Second)
	if _, err := missing.Classify(context.Background(), Document{Title: "x"}); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("unexpected error without backend: %v", err)
	}
}

func TestGenerativeClassifierRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	backend := &stubCompleter{reply: "Entretenimento,0.9"}
	primary := NewGenerativeClassifier(backend, lexicon.Default(), time.Second)
	if _, err := primary.Classify(context.Background(), Document{Title: "Show lotado"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrUnknownCategory)
	}

	classifier := WithFallback(primary, NewFixedKeywordClassifier(lexicon.Default()), zerolog.Nop())
	got, err := classifier.Classify(context.Background(), Document{Title: "Festival de teatro e cinema"})
	if err != nil {
		t.Fatalf("fallback classifier returned error: %v", err)
	}
	if name, _ := got.Suggested(); name != "Cultura" {
		t.Fatalf("unexpected fallback category: got %q want %q", name, "Cultura")
	}
	if got.Method != MethodKeyword {
		t.Fatalf("unexpected fallback method: got %q want %q", got.Method, MethodKeyword)
	}
}

func TestParseReply(t *testing.T) {
	t.Parallel()

	label, confidence, err := ParseReply("\"Cultura, 0.6\"\nPorque fala de teatro.")
	if err != nil {
		t.Fatalf("parse reply: %v", err)
	}
	if label != "Cultura" || confidence != 0.6 {
		t.Fatalf("unexpected parse: got %q %v", label, confidence)
	}

	if _, confidence, _ := ParseReply("Saúde,1.7"); confidence != 1 {
		t.Fatalf("expected confidence clamp to 1, got %v", confidence)
	}
	if _, confidence, _ := ParseReply("Saúde"); confidence != 0.5 {
		t.Fatalf("expected default confidence without comma, got %v", confidence)
	}
	if _, _, err := ParseReply(""); err == nil {
		t.Fatalf("expected empty reply error")
	}
}

func TestFixedKeywordClassifier(t *testing.T) {
	t.Parallel()

	classifier := NewFixedKeywordClassifier(lexicon.Default())

	got, err := classifier.Classify(context.Background(), Document{
		Title:   "Eleição no congresso",
		Content: "O governo e o presidente",
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if name, _ := got.Suggested(); name != "Política" {
		t.Fatalf("unexpected category: got %q want %q", name, "Política")
	}
	if got.Confidence != 0.8 {
		t.Fatalf("expected confidence capped at 0.8, got %v", got.Confidence)
	}
	if got.Method != MethodKeyword {
		t.Fatalf("unexpected method: got %q want %q", got.Method, MethodKeyword)
	}

	fallback, err := classifier.Classify(context.Background(), Document{
		Title:   "Notícia do dia",
		Content: "Chuva forte cai sobre a cidade durante a tarde",
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if name, _ := fallback.Suggested(); name != lexicon.CatchAllCategory {
		t.Fatalf("unexpected default category: got %q want %q", name, lexicon.CatchAllCategory)
	}
	if fallback.Confidence != 0.1 || fallback.Method != MethodDefault {
		t.Fatalf("unexpected default result: %+v", fallback)
	}
}

func TestWithFallbackUsesKeywordPathOnBackendFailure(t *testing.T) {
	t.Parallel()

	backend := &stubCompleter{err: context.DeadlineExceeded}
	primary := NewGenerativeClassifier(backend, lexicon.Default(), time.Millisecond)
	classifier := WithFallback(primary, NewFixedKeywordClassifier(lexicon.Default()), zerolog.Nop())

	got, err := classifier.Classify(context.Background(), Document{Title: "Vacina contra covid chega ao hospital"})
	if err != nil {
		t.Fatalf("fallback classifier returned error: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("unexpected backend calls: got %d want %d", backend.calls, 1)
	}
	if name, _ := got.Suggested(); name != "Saúde" {
		t.Fatalf("unexpected fallback category: got %q want %q", name, "Saúde")
	}
	if got.Method != MethodKeyword {
		t.Fatalf("unexpected fallback method: got %q want %q", got.Method, MethodKeyword)
	}
}

func TestWithFallbackPrefersPrimary(t *testing.T) {
	t.Parallel()

	primary := &stubClassifier{result: Result{SuggestedCategory: stringPtr("Cultura"), Confidence: 0.9, Method: MethodGenerative}}
	fallback := &stubClassifier{}
	classifier := WithFallback(primary, fallback, zerolog.Nop())

	got, err := classifier.Classify(context.Background(), Document{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Method != MethodGenerative {
		t.Fatalf("unexpected method: got %q want %q", got.Method, MethodGenerative)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run when primary succeeds, got %d calls", fallback.calls)
	}

	noPrimary := WithFallback(nil, fallback, zerolog.Nop())
	if _, err := noPrimary.Classify(context.Background(), Document{}); err != nil {
		t.Fatalf("classify without primary: %v", err)
	}
	if fallback.calls != 1 {
		t.Fatalf("unexpected fallback calls: got %d want %d", fallback.calls, 1)
	}
}
