package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/cli"
	"horse.fit/newsanalysis/internal/db"
	"horse.fit/newsanalysis/internal/globaltime"
)

const shownErrorDetails = 3

// analyzeReport accumulates the batches of one analyze run.
type analyzeReport struct {
	RunIDs       []string                `json:"run_ids"`
	Batches      int                     `json:"batches"`
	Total        int                     `json:"total"`
	Processed    int                     `json:"processed"`
	Errors       int                     `json:"errors"`
	Filtered     int                     `json:"filtered"`
	ErrorDetails []analysis.ItemError    `json:"error_details"`
	Classified   int                     `json:"classified,omitempty"`
	Suggested    int                     `json:"suggested,omitempty"`
	Assignment   *analysis.AssignOutcome `json:"assignment,omitempty"`
}

func (r *analyzeReport) addBatch(outcome analysis.BatchOutcome) {
	r.Batches++
	if outcome.RunID != "" {
		r.RunIDs = append(r.RunIDs, outcome.RunID)
	}
	r.Total += outcome.Total
	r.Processed += outcome.Processed
	r.Errors += outcome.Errors
	r.Filtered += outcome.Filtered
	r.ErrorDetails = append(r.ErrorDetails, outcome.ErrorDetails...)
}

func (r *analyzeReport) addSuggestions(suggestions []analysis.Suggestion) {
	r.Classified += len(suggestions)
	for _, suggestion := range suggestions {
		if _, ok := suggestion.Classification.Suggested(); ok {
			r.Suggested++
		}
	}
}

func (r *analyzeReport) addAssignment(outcome analysis.AssignOutcome) {
	if r.Assignment == nil {
		r.Assignment = &analysis.AssignOutcome{}
	}
	r.Assignment.Total += outcome.Total
	r.Assignment.Assigned += outcome.Assigned
	r.Assignment.BelowThreshold += outcome.BelowThreshold
	r.Assignment.UnknownCategory += outcome.UnknownCategory
	r.Assignment.Errors += outcome.Errors
	r.Assignment.ErrorDetails = append(r.Assignment.ErrorDetails, outcome.ErrorDetails...)
}

func (r *analyzeReport) print(w io.Writer) {
	fmt.Fprintf(
		w,
		"analyze batches=%d total=%d processed=%d errors=%d filtered=%d\n",
		r.Batches,
		r.Total,
		r.Processed,
		r.Errors,
		r.Filtered,
	)
	printErrorDetails(w, r.ErrorDetails)

	if r.Classified > 0 {
		fmt.Fprintf(w, "classify items=%d suggested=%d\n", r.Classified, r.Suggested)
	}
	if r.Assignment != nil {
		fmt.Fprintf(
			w,
			"auto-assign total=%d assigned=%d below_threshold=%d unknown_category=%d errors=%d\n",
			r.Assignment.Total,
			r.Assignment.Assigned,
			r.Assignment.BelowThreshold,
			r.Assignment.UnknownCategory,
			r.Assignment.Errors,
		)
		printErrorDetails(w, r.Assignment.ErrorDetails)
	}
}

func printErrorDetails(w io.Writer, details []analysis.ItemError) {
	for i, detail := range details {
		if i == shownErrorDetails {
			fmt.Fprintf(w, "  ... and %d more\n", len(details)-shownErrorDetails)
			return
		}
		fmt.Fprintf(w, "  item %d (%s): %s\n", detail.ItemID, truncateForTable(detail.Title, 40), detail.Message)
	}
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	title := fs.String("title", "", "Title of an ad-hoc text to analyze without storing")
	summary := fs.String("summary", "", "Summary of an ad-hoc text")
	content := fs.String("content", "", "Body of an ad-hoc text")
	file := fs.String("file", "", "Read the ad-hoc body from a file (- for stdin)")
	all := fs.Bool("all", false, "Re-analyze items that already carry an analysis")
	idsRaw := fs.String("ids", "", "Comma-separated news item IDs")
	category := fs.String("category", "", "Only items whose category name contains this text")
	days := fs.Int("days", 0, "Only items created in the last N days (0 for no limit)")
	batchSize := fs.Int("batch-size", 100, "Items loaded per batch")
	workers := fs.Int("workers", 0, "Concurrent analyses (0 uses ANALYSIS_WORKERS)")
	classifyCategories := fs.Bool("classify-categories", false, "Suggest a category for every selected item")
	autoAssign := fs.Bool("auto-assign-categories", false, "Assign suggested categories at or above --confidence-threshold")
	threshold := fs.Float64("confidence-threshold", -1, "Auto-assign threshold (default AUTO_ASSIGN_THRESHOLD)")
	timeout := fs.Duration("timeout", 30*time.Minute, "Command timeout")
	format := fs.String("format", "", "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ids, err := parseIDs(*idsRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --ids: %v\n", err)
		return 2
	}
	if *batchSize <= 0 {
		fmt.Fprintln(os.Stderr, "--batch-size must be > 0")
		return 2
	}
	if *days < 0 {
		fmt.Fprintln(os.Stderr, "--days must be >= 0")
		return 2
	}
	if *workers < 0 {
		fmt.Fprintln(os.Stderr, "--workers must be >= 0")
		return 2
	}
	if *threshold > 1 {
		fmt.Fprintln(os.Stderr, "--confidence-threshold must be <= 1")
		return 2
	}

	adHoc := strings.TrimSpace(*title+*summary+*content+*file) != ""
	storedFlags := len(ids) > 0 || *all || strings.TrimSpace(*category) != "" || *days > 0 || *classifyCategories || *autoAssign
	if adHoc && storedFlags {
		fmt.Fprintln(os.Stderr, "Ad-hoc text flags cannot be combined with stored item selection")
		return 2
	}

	defaultFormat := outputFormatTable
	if adHoc {
		defaultFormat = outputFormatJSON
	}
	outputFormat, err := parseOutputFormat(*format, defaultFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	body := *content
	if strings.TrimSpace(*file) != "" {
		body, err = readInput(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
			return 1
		}
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if adHoc {
		eng, err := newEngine(ctx, cfg, logger, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
			return 1
		}
		defer eng.Close()

		result := eng.service.AnalyzeText(*title, *summary, body)
		if err := printAnalysis(result, outputFormat); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
		return 0
	}

	if err := cfg.RequireDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	pool, store, err := connectStore(cfg, 10*time.Second)
	if err != nil {
		logger.Error().Err(err).Msg("analyze command failed to connect to database")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer pool.Close()

	eng, err := newEngine(ctx, cfg, logger, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
		return 1
	}
	defer eng.Close()

	filter := db.NewsFilter{
		IDs:      ids,
		Category: strings.TrimSpace(*category),
		// Explicit IDs reach the service so already analyzed ones are reported as filtered.
		OnlyUnanalyzed: !*all && len(ids) == 0,
		Limit:          *batchSize,
	}
	if *days > 0 {
		since := globaltime.UTC().AddDate(0, 0, -*days)
		filter.Since = &since
	}

	minConfidence := cfg.AutoAssignThreshold
	if *threshold >= 0 {
		minConfidence = *threshold
	}

	var categories []classify.Category
	if *classifyCategories || *autoAssign {
		categories, err = store.ListCategories(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load categories: %v\n", err)
			return 1
		}
	}

	report := &analyzeReport{}
	for {
		items, err := store.ListNews(ctx, filter)
		if err != nil {
			logger.Error().Err(err).Msg("load news batch failed")
			fmt.Fprintf(os.Stderr, "Failed to load news items: %v\n", err)
			return 1
		}
		if len(items) == 0 {
			break
		}

		outcome, err := eng.service.AnalyzeBatch(ctx, items, analysis.BatchOptions{Force: *all, Workers: *workers})
		if err != nil {
			logger.Error().Err(err).Msg("analyze batch failed")
			fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
			return 1
		}
		report.addBatch(outcome)

		if *classifyCategories || *autoAssign {
			suggestions := eng.service.ClassifyBatch(ctx, items, categories)
			report.addSuggestions(suggestions)
			if *autoAssign {
				assigned, err := eng.service.AutoAssign(ctx, suggestions, minConfidence)
				if err != nil {
					logger.Error().Err(err).Msg("auto-assign failed")
					fmt.Fprintf(os.Stderr, "Auto-assign failed: %v\n", err)
					return 1
				}
				report.addAssignment(assigned)
			}
		}

		filter.AfterID = items[len(items)-1].ID
		if len(items) < *batchSize {
			break
		}
	}

	logger.Info().
		Int("batches", report.Batches).
		Int("total", report.Total).
		Int("processed", report.Processed).
		Int("errors", report.Errors).
		Int("filtered", report.Filtered).
		Msg("analyze completed")

	if outputFormat == outputFormatJSON {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
	} else {
		report.print(os.Stdout)
	}

	if report.Errors > 0 {
		return 1
	}
	return 0
}

func printAnalysis(result analysis.AnalysisResult, format string) error {
	if format == outputFormatJSON {
		return printJSON(result)
	}

	rows := [][]string{
		{"sentiment", result.SentimentLabel},
		{"score", formatFloat(result.SentimentScore)},
		{"confidence", formatFloat(result.SentimentConfidence)},
		{"title sentiment", result.TitleSentiment.Label},
		{"language", result.Language},
		{"contexts", strings.Join(result.Contexts, ", ")},
		{"words", strconv.Itoa(result.TextStats.TotalWords)},
	}
	kinds := make([]string, 0, len(result.Entities))
	for kind := range result.Entities {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		rows = append(rows, []string{"entities." + kind, truncateForTable(strings.Join(result.Entities[kind], ", "), 80)})
	}
	return writeTable([]string{"FIELD", "VALUE"}, rows)
}
