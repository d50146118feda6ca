package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/reader"
)

const (
	MethodGenerative = "generative"
	MethodFallback   = "fallback"

	UnknownSource = "Fonte não identificada"
	UnknownTitle  = "Título não identificado"

	DefaultTimeout = 30 * time.Second

	titleLimit         = 150
	summaryLimit       = 200
	promptContentLimit = 2000
	ellipsis           = "..."
)

var ErrEmptyContent = errors.New("content is empty")

// Completer is the text-completion call used for structured extraction.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Fields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

type Result struct {
	Fields
	Method string `json:"method"`
}

// Extractor turns raw news content into title, content, summary and source.
type Extractor struct {
	backend Completer
	timeout time.Duration
	logger  zerolog.Logger
}

// New builds an Extractor. A nil backend makes every call use the heuristic path.
func New(backend Completer, timeout time.Duration, logger zerolog.Logger) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// Extract returns structured fields for raw text or HTML. It fails only on
// empty input; backend failures fall back to the heuristic.
func (e *Extractor) Extract(ctx context.Context, raw string) (Result, error) {
	if e == nil {
		e = New(nil, 0, zerolog.Nop())
	}

	content := strings.TrimSpace(raw)
	if reader.LooksLikeHTML(content) {
		page, err := reader.FromHTML(content, "")
		if err != nil {
			e.logger.Debug().Err(err).Msg("html extraction failed; using raw content")
		} else {
			content = page.Text
			if page.Title != "" {
				content = page.Title + "\n" + content
			}
		}
	}
	if content == "" {
		return Result{}, ErrEmptyContent
	}

	if e.backend == nil {
		return Fallback(content), nil
	}

	fields, err := e.generative(ctx, content)
	if err != nil {
		e.logger.Warn().Err(err).Msg("generative extraction failed; using heuristic fallback")
		return Fallback(content), nil
	}
	return Result{Fields: fields, Method: MethodGenerative}, nil
}

func (e *Extractor) generative(ctx context.Context, content string) (Fields, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	preview := content
	if utf8.RuneCountInString(preview) > promptContentLimit {
		preview = string([]rune(preview)[:promptContentLimit])
	}

	reply, err := e.backend.Complete(callCtx, systemPrompt, userPrompt(preview))
	if err != nil {
		return Fields{}, fmt.Errorf("generative extraction: %w", err)
	}

	fields, err := ParseReply(reply)
	if err != nil {
		return Fields{}, err
	}
	if fields.Title == "" {
		fields.Title = fallbackTitle(content)
	}
	if fields.Content == "" {
		fields.Content = content
	}
	if fields.Summary == "" {
		fields.Summary = fallbackSummary(content)
	}
	if fields.Source == "" {
		fields.Source = UnknownSource
	}
	return fields, nil
}

// ParseReply decodes the JSON object of a backend reply, tolerating a
// surrounding markdown code fence.
func ParseReply(reply string) (Fields, error) {
	body := strings.TrimSpace(reply)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return Fields{}, fmt.Errorf("extraction reply has no json object: %q", reply)
	}

	var fields Fields
	if err := json.Unmarshal([]byte(body[start:end+1]), &fields); err != nil {
		return Fields{}, fmt.Errorf("decode extraction reply: %w", err)
	}
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Content = strings.TrimSpace(fields.Content)
	fields.Summary = strings.TrimSpace(fields.Summary)
	fields.Source = strings.TrimSpace(fields.Source)
	return fields, nil
}

// Fallback derives fields without a backend: the first non-empty line is the
// title, the first two sentences are the summary.
func Fallback(content string) Result {
	trimmed := strings.TrimSpace(content)
	return Result{
		Fields: Fields{
			Title:   fallbackTitle(trimmed),
			Content: trimmed,
			Summary: fallbackSummary(trimmed),
			Source:  UnknownSource,
		},
		Method: MethodFallback,
	}
}

func fallbackTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			title, _ := reader.Truncate(line, titleLimit, ellipsis)
			return title
		}
	}
	return UnknownTitle
}

func fallbackSummary(content string) string {
	sentences := splitSentences(content)
	if len(sentences) >= 2 {
		return sentences[0] + " " + sentences[1]
	}

	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) > summaryLimit {
		return string([]rune(flat)[:summaryLimit]) + ellipsis
	}
	return flat
}

// splitSentences returns terminated sentences with whitespace collapsed. A
// trailing fragment without a terminator is dropped.
func splitSentences(content string) []string {
	flat := strings.Join(strings.Fields(content), " ")

	var sentences []string
	start := 0
	for i, r := range flat {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(flat) && flat[next] != ' ' {
			continue
		}
		if sentence := strings.TrimSpace(flat[start:next]); sentence != "" && sentence != string(r) {
			sentences = append(sentences, sentence)
		}
		start = next
	}
	return sentences
}

const systemPrompt = "Você é um especialista em extração de informações de notícias. Responda sempre em JSON válido."

func userPrompt(content string) string {
	return "Analise o seguinte texto de notícia e extraia título, conteúdo principal, " +
		"um resumo de 1-2 frases e a fonte (se mencionada).\n\n" +
		"Texto da notícia:\n" + content + "\n\n" +
		"Responda APENAS com um objeto JSON com as chaves title, content, summary, source. " +
		"Use uma string vazia quando a informação não estiver disponível."
}
