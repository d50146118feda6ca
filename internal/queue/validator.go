package queue

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed request.schema.json
var requestSchemaJSON string

const (
	TypeAnalyze  = "analyze"
	TypeClassify = "classify"
)

// Request asks for analysis or classification of stored news items or of
// inline items.
type Request struct {
	Type                string       `json:"type"`
	RequestID           string       `json:"request_id"`
	Timestamp           string       `json:"timestamp"`
	NewsIDs             []int64      `json:"news_ids,omitempty"`
	Force               bool         `json:"force,omitempty"`
	AutoAssign          bool         `json:"auto_assign,omitempty"`
	ConfidenceThreshold *float64     `json:"confidence_threshold,omitempty"`
	Items               []InlineItem `json:"items,omitempty"`
}

type InlineItem struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateRequest decodes payload, checks it against the request schema and
// then against the rules the schema cannot express.
func ValidateRequest(payload []byte) (*Request, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var req Request
	if err := json.Unmarshal(normalized, &req); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("request.schema.json", strings.NewReader(requestSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("request.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(req *Request) error {
	if req == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(req.RequestID) == "" {
		return fmt.Errorf("request_id must not be empty")
	}
	if _, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Timestamp)); err != nil {
		return fmt.Errorf("timestamp must be RFC3339: %w", err)
	}

	hasIDs := len(req.NewsIDs) > 0
	hasItems := len(req.Items) > 0
	if hasIDs == hasItems {
		return fmt.Errorf("exactly one of news_ids or items is required")
	}
	if req.AutoAssign && !hasIDs {
		return fmt.Errorf("auto_assign requires news_ids")
	}
	if req.AutoAssign && req.Type != TypeClassify {
		return fmt.Errorf("auto_assign is only valid for classify requests")
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("items[%d].title must not be empty", i)
		}
	}
	return nil
}
