package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/config"
	"horse.fit/newsanalysis/internal/queue"
)

func TestRunDispatch(t *testing.T) {
	t.Parallel()

	if code := Run(nil); code != 2 {
		t.Fatalf("unexpected exit code without args: got %d want %d", code, 2)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("unexpected exit code for help: got %d want %d", code, 0)
	}
	if code := Run([]string{"bogus"}); code != 2 {
		t.Fatalf("unexpected exit code for unknown command: got %d want %d", code, 2)
	}
	if code := Run([]string{"analyze", "--format", "xml", "--title", "x"}); code != 2 {
		t.Fatalf("unexpected exit code for bad format: got %d want %d", code, 2)
	}
	if code := Run([]string{"classify", "--auto-assign", "--title", "x"}); code != 2 {
		t.Fatalf("auto-assign without ids should be a usage error: got %d", code)
	}
	if code := Run([]string{"extract", "--content", "a", "--url", "http://example.com"}); code != 2 {
		t.Fatalf("two extract sources should be a usage error: got %d", code)
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	got, err := parseIDs(" 3, 1,,3 ,2")
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if want := []int64{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ids: got %v want %v", got, want)
	}

	if got, err := parseIDs(""); err != nil || got != nil {
		t.Fatalf("unexpected empty parse: got %v err %v", got, err)
	}
	for _, raw := range []string{"1,x", "0", "-4"} {
		if _, err := parseIDs(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestAdHocCategories(t *testing.T) {
	t.Parallel()

	categories := adHocCategories("Economia, esportes,,ECONOMIA")
	if len(categories) != 2 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if categories[0].ID != 1 || categories[0].Name != "Economia" || categories[1].ID != 2 || categories[1].Name != "esportes" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if adHocCategories("  ") != nil {
		t.Fatalf("expected nil categories for empty input")
	}
}

func TestConsumeLinesDecisions(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultLanguage:           "pt",
		SentimentThreshold:        0.02,
		SentimentConfidenceScale:  2,
		EntityCap:                 10,
		ContextMinHits:            1,
		CategoryConfidenceDivisor: 10,
		AnalysisWorkers:           1,
		GenerativeTimeout:         time.Second,
	}
	eng, err := newEngine(context.Background(), cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer eng.Close()
	if eng.backend != "" {
		t.Fatalf("unexpected generative backend without keys: %q", eng.backend)
	}

	input := strings.Join([]string{
		"# analysis requests",
		validRequest,
		`{"type":"analyze"}`,
		"",
		`{"type":"classify","request_id":"r-3","timestamp":"2024-03-01T12:00:00Z","news_ids":[4]}`,
	}, "\n")

	var out bytes.Buffer
	handler := queue.NewHandler(eng.service, nil, zerolog.Nop())
	summary, err := consumeLines(context.Background(), strings.NewReader(input), handler, time.Second, &out)
	if err != nil {
		t.Fatalf("consume lines: %v", err)
	}
	want := consumeSummary{Messages: 3, Acked: 1, Rejected: 2}
	if summary != want {
		t.Fatalf("unexpected summary: got %+v want %+v", summary, want)
	}

	var decisions []queue.Decision
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var result queue.Result
		if err := json.Unmarshal(scanner.Bytes(), &result); err != nil {
			t.Fatalf("decode result line: %v", err)
		}
		decisions = append(decisions, result.Decision)
	}
	if wantDecisions := []queue.Decision{queue.Ack, queue.Reject, queue.Reject}; !reflect.DeepEqual(decisions, wantDecisions) {
		t.Fatalf("unexpected decisions: got %v want %v", decisions, wantDecisions)
	}
}

func TestAnalyzeReportMergesBatches(t *testing.T) {
	t.Parallel()

	report := &analyzeReport{}
	report.addBatch(analysis.BatchOutcome{
		RunID:     "run-1",
		Total:     3,
		Processed: 1,
		Errors:    2,
		ErrorDetails: []analysis.ItemError{
			{ItemID: 1, Title: "um", Message: "write failed"},
			{ItemID: 2, Title: "dois", Message: "write failed"},
		},
		Filtered: 1,
	})
	report.addBatch(analysis.BatchOutcome{
		RunID:        "run-2",
		Total:        2,
		Processed:    0,
		Errors:       2,
		ErrorDetails: []analysis.ItemError{{ItemID: 3, Message: "x"}, {ItemID: 4, Message: "y"}},
	})
	report.addAssignment(analysis.AssignOutcome{Total: 2, Assigned: 1, BelowThreshold: 1})
	report.addAssignment(analysis.AssignOutcome{Total: 1, UnknownCategory: 1})

	if report.Batches != 2 || report.Total != 5 || report.Processed != 1 || report.Errors != 4 || report.Filtered != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if !reflect.DeepEqual(report.RunIDs, []string{"run-1", "run-2"}) {
		t.Fatalf("unexpected run ids: %v", report.RunIDs)
	}
	if report.Assignment.Total != 3 || report.Assignment.Assigned != 1 || report.Assignment.UnknownCategory != 1 {
		t.Fatalf("unexpected assignment: %+v", report.Assignment)
	}

	var out bytes.Buffer
	report.print(&out)
	text := out.String()
	if !strings.Contains(text, "analyze batches=2 total=5 processed=1 errors=4 filtered=1") {
		t.Fatalf("unexpected summary line: %q", text)
	}
	if strings.Contains(text, "item 4") || !strings.Contains(text, "item 3") {
		t.Fatalf("expected only the first three error details: %q", text)
	}
	if !strings.Contains(text, "... and 1 more") {
		t.Fatalf("expected remaining error count: %q", text)
	}
}
