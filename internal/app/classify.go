package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/classify"
	"horse.fit/newsanalysis/internal/cli"
)

type classifyBatchOutput struct {
	Suggestions []analysis.Suggestion   `json:"suggestions"`
	Assignment  *analysis.AssignOutcome `json:"assignment,omitempty"`
}

func runClassify(args []string) int {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	title := fs.String("title", "", "Title of an ad-hoc text to classify")
	summary := fs.String("summary", "", "Summary of an ad-hoc text to classify")
	content := fs.String("content", "", "Body of an ad-hoc text to classify")
	file := fs.String("file", "", "Read the body from a file (- for stdin)")
	categoriesRaw := fs.String("categories", "", "Comma-separated existing category names for ad-hoc text")
	fixed := fs.Bool("fixed", false, "Classify ad-hoc text against the canonical category set")
	idsRaw := fs.String("ids", "", "Comma-separated stored news item IDs to classify")
	autoAssign := fs.Bool("auto-assign", false, "Assign suggested categories at or above --threshold")
	threshold := fs.Float64("threshold", -1, "Auto-assign confidence threshold (default AUTO_ASSIGN_THRESHOLD)")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	format := fs.String("format", outputFormatJSON, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}
	ids, err := parseIDs(*idsRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --ids: %v\n", err)
		return 2
	}
	if *autoAssign && len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "--auto-assign requires --ids")
		return 2
	}
	if *threshold > 1 {
		fmt.Fprintln(os.Stderr, "--threshold must be <= 1")
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
	if len(ids) == 0 && strings.TrimSpace(*title+*summary+body) == "" {
		fmt.Fprintln(os.Stderr, "Provide --title/--summary/--content/--file or --ids")
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if len(ids) == 0 {
		eng, err := newEngine(ctx, cfg, logger, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
			return 1
		}
		defer eng.Close()

		item := &analysis.Item{Title: *title, Summary: *summary, Content: body}
		var result classify.Result
		var category *classify.Category
		if *fixed {
			result, err = eng.service.ClassifyFixed(ctx, item)
		} else {
			result, category, err = eng.service.ClassifyOne(ctx, item, adHocCategories(*categoriesRaw))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Classify failed: %v\n", err)
			return 1
		}
		if err := printSuggestions([]analysis.Suggestion{{Title: *title, Classification: result, Category: category}}, nil, outputFormat); err != nil {
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
		logger.Error().Err(err).Msg("classify command failed to connect to database")
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

	items, err := store.LoadNews(ctx, ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load news items: %v\n", err)
		return 1
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load categories: %v\n", err)
		return 1
	}

	suggestions := eng.service.ClassifyBatch(ctx, items, categories)
	var assignment *analysis.AssignOutcome
	if *autoAssign {
		minConfidence := cfg.AutoAssignThreshold
		if *threshold >= 0 {
			minConfidence = *threshold
		}
		outcome, err := eng.service.AutoAssign(ctx, suggestions, minConfidence)
		if err != nil {
			logger.Error().Err(err).Msg("auto-assign failed")
			fmt.Fprintf(os.Stderr, "Auto-assign failed: %v\n", err)
			return 1
		}
		assignment = &outcome
	}

	if err := printSuggestions(suggestions, assignment, outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	if assignment != nil && assignment.Errors > 0 {
		return 1
	}
	return 0
}

// adHocCategories numbers the given names from 1 so ad-hoc runs can report
// whether a suggestion exists among them.
func adHocCategories(raw string) []classify.Category {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	categories := make([]classify.Category, 0)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := classify.FindCategory(categories, name); exists {
			continue
		}
		categories = append(categories, classify.Category{ID: int64(len(categories) + 1), Name: name})
	}
	return categories
}

func printSuggestions(suggestions []analysis.Suggestion, assignment *analysis.AssignOutcome, format string) error {
	if format == outputFormatJSON {
		if assignment == nil && len(suggestions) == 1 && suggestions[0].ItemID == 0 {
			return printJSON(suggestions[0])
		}
		return printJSON(classifyBatchOutput{Suggestions: suggestions, Assignment: assignment})
	}

	rows := make([][]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		name, _ := suggestion.Classification.Suggested()
		exists := ""
		if suggestion.Classification.CategoryExists != nil {
			exists = strconv.FormatBool(*suggestion.Classification.CategoryExists)
		}
		rows = append(rows, []string{
			strconv.FormatInt(suggestion.ItemID, 10),
			truncateForTable(suggestion.Title, 40),
			name,
			formatFloat(suggestion.Classification.Confidence),
			suggestion.Classification.Method,
			exists,
		})
	}
	if err := writeTable([]string{"ITEM", "TITLE", "CATEGORY", "CONFIDENCE", "METHOD", "EXISTS"}, rows); err != nil {
		return err
	}
	if assignment != nil {
		fmt.Printf(
			"auto-assign total=%d assigned=%d below_threshold=%d unknown_category=%d errors=%d\n",
			assignment.Total,
			assignment.Assigned,
			assignment.BelowThreshold,
			assignment.UnknownCategory,
			assignment.Errors,
		)
	}
	return nil
}
