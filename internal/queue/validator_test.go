package queue

import (
	"strings"
	"testing"
)

func TestValidateRequestAcceptsNewsIDs(t *testing.T) {
	t.Parallel()

	req, err := ValidateRequest([]byte(`{
		"type": "classify",
		"request_id": "req-1",
		"timestamp": "2024-06-01T10:00:00Z",
		"news_ids": [1, 2, 3],
		"auto_assign": true,
		"confidence_threshold": 0.5
	}`))
	if err != nil {
		t.Fatalf("expected request to be valid, got error: %v", err)
	}
	if req.Type != TypeClassify || len(req.NewsIDs) != 3 || req.NewsIDs[2] != 3 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.ConfidenceThreshold == nil || *req.ConfidenceThreshold != 0.5 {
		t.Fatalf("unexpected threshold: %v", req.ConfidenceThreshold)
	}
}

func TestValidateRequestRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "empty", payload: "  ", wantErr: "payload is empty"},
		{name: "trailing content", payload: `{"type":"analyze"} {}`, wantErr: "trailing content"},
		{name: "unknown type", payload: `{"type":"generate","request_id":"r","timestamp":"2024-06-01T10:00:00Z","news_ids":[1]}`, wantErr: "schema validation failed"},
		{name: "unknown field", payload: `{"type":"analyze","request_id":"r","timestamp":"2024-06-01T10:00:00Z","news_ids":[1],"priority":1}`, wantErr: "schema validation failed"},
		{name: "bad timestamp", payload: `{"type":"analyze","request_id":"r","timestamp":"yesterday","news_ids":[1]}`, wantErr: "schema validation failed"},
		{name: "threshold above one", payload: `{"type":"classify","request_id":"r","timestamp":"2024-06-01T10:00:00Z","news_ids":[1],"confidence_threshold":1.5}`, wantErr: "schema validation failed"},
		{name: "no target", payload: `{"type":"analyze","request_id":"r","timestamp":"2024-06-01T10:00:00Z"}`, wantErr: "exactly one of news_ids or items"},
		{name: "auto assign inline", payload: `{"type":"classify","request_id":"r","timestamp":"2024-06-01T10:00:00Z","items":[{"title":"x"}],"auto_assign":true}`, wantErr: "auto_assign requires news_ids"},
		{name: "blank title", payload: `{"type":"analyze","request_id":"r","timestamp":"2024-06-01T10:00:00Z","items":[{"title":"  "}]}`, wantErr: "items[0].title must not be empty"},
	}
	for _, tc := range tests {
		_, err := ValidateRequest([]byte(tc.payload))
		if err == nil {
			t.Fatalf("%s: expected validation to fail", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: unexpected error: got %v want substring %q", tc.name, err, tc.wantErr)
		}
	}
}
