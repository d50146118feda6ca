package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"horse.fit/newsanalysis/internal/lexicon"
)

const (
	DefaultGenerativeTimeout = 30 * time.Second

	promptContentLimit   = 1000
	defaultReplyScore    = 0.5
	remapPenalty         = 0.2
	remapConfidenceFloor = 0.3
)

var (
	ErrNoBackend       = errors.New("generative backend is not configured")
	ErrUnknownCategory = errors.New("generative reply names no known category")
)

// Completer is the text-completion call the generative classifier delegates to.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerativeClassifier asks a text-completion backend for "category,confidence".
type GenerativeClassifier struct {
	backend    Completer
	categories []string
	synonyms   []lexicon.Synonym
	timeout    time.Duration
}

func NewGenerativeClassifier(backend Completer, tables *lexicon.Tables, timeout time.Duration) *GenerativeClassifier {
	if timeout <= 0 {
		timeout = DefaultGenerativeTimeout
	}
	c := &GenerativeClassifier{
		backend: backend,
		timeout: timeout,
	}
	if tables != nil {
		c.categories = tables.FixedCategoryNames()
		c.synonyms = tables.Synonyms
	}
	return c
}

func (c *GenerativeClassifier) Classify(ctx context.Context, doc Document) (Result, error) {
	if c == nil || c.backend == nil {
		return Result{}, ErrNoBackend
	}
	if len(c.categories) == 0 {
		return Result{}, fmt.Errorf("generative classifier has no categories")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.backend.Complete(callCtx, c.systemPrompt(), userPrompt(doc))
	if err != nil {
		return Result{}, fmt.Errorf("generative classification: %w", err)
	}

	label, confidence, err := ParseReply(reply)
	if err != nil {
		return Result{}, err
	}

	category, remapped, ok := c.resolve(label)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
	}
	if remapped {
		confidence = math.Max(remapConfidenceFloor, confidence-remapPenalty)
	}
	confidence = round(confidence, 3)

	return Result{
		SuggestedCategory: stringPtr(category),
		Confidence:        confidence,
		Scores:            map[string]float64{category: confidence},
		Method:            MethodGenerative,
		Message:           fmt.Sprintf("Suggested category: %s (confidence: %.1f%%)", category, confidence*100),
	}, nil
}

// resolve maps a backend label onto the canonical set. remapped reports whether
// the label needed the synonym table; ok is false when nothing matched.
func (c *GenerativeClassifier) resolve(label string) (name string, remapped, ok bool) {
	for _, candidate := range c.categories {
		if strings.EqualFold(candidate, label) {
			return candidate, false, true
		}
	}

	lowered := strings.ToLower(label)
	for _, candidate := range c.categories {
		if strings.Contains(lowered, strings.ToLower(candidate)) {
			return candidate, true, true
		}
	}
	for _, synonym := range c.synonyms {
		if strings.Contains(lowered, synonym.Term) {
			return synonym.Category, true, true
		}
	}
	return "", false, false
}

func (c *GenerativeClassifier) systemPrompt() string {
	return "Você é um classificador de notícias. Classifique a notícia em exatamente uma destas categorias: " +
		strings.Join(c.categories, ", ") +
		". Responda apenas no formato Categoria,Confiança, onde Confiança é um número entre 0 e 1."
}

func userPrompt(doc Document) string {
	content := strings.TrimSpace(doc.Content)
	if utf8.RuneCountInString(content) > promptContentLimit {
		content = string([]rune(content)[:promptContentLimit])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Título: %s\n", strings.TrimSpace(doc.Title))
	if summary := strings.TrimSpace(doc.Summary); summary != "" {
		fmt.Fprintf(&b, "Resumo: %s\n", summary)
	}
	fmt.Fprintf(&b, "Conteúdo: %s\n", content)
	return b.String()
}

// ParseReply splits a "category,confidence" reply. A missing or unparsable
// confidence becomes 0.5; values are clamped to [0,1].
func ParseReply(reply string) (string, float64, error) {
	line := strings.TrimSpace(reply)
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	line = strings.Trim(line, "\"'`. ")
	if line == "" {
		return "", 0, fmt.Errorf("generative backend returned an empty reply")
	}

	label, rawConfidence, hasComma := strings.Cut(line, ",")
	label = strings.Trim(strings.TrimSpace(label), "\"'`*")
	if label == "" {
		return "", 0, fmt.Errorf("generative reply has no category: %q", reply)
	}
	if !hasComma {
		return label, defaultReplyScore, nil
	}

	normalized := strings.ReplaceAll(strings.Trim(strings.TrimSpace(rawConfidence), "\"'`*%"), ",", ".")
	confidence, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(confidence) {
		return label, defaultReplyScore, nil
	}
	return label, math.Max(0, math.Min(1, confidence)), nil
}
