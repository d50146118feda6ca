package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newsanalysis/internal/cli"
	"horse.fit/newsanalysis/internal/extract"
	"horse.fit/newsanalysis/internal/reader"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	content := fs.String("content", "", "Raw news text or HTML")
	file := fs.String("file", "", "Read raw text or HTML from a file (- for stdin)")
	pageURL := fs.String("url", "", "Fetch a news page and extract its article")
	fetchTimeout := fs.Duration("fetch-timeout", reader.DefaultFetchTimeout, "HTTP timeout for --url")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
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

	sources := 0
	for _, value := range []string{*content, *file, *pageURL} {
		if strings.TrimSpace(value) != "" {
			sources++
		}
	}
	if sources != 1 {
		fmt.Fprintln(os.Stderr, "Provide exactly one of --content, --file or --url")
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	raw := *content
	switch {
	case strings.TrimSpace(*file) != "":
		raw, err = readInput(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
			return 1
		}
	case strings.TrimSpace(*pageURL) != "":
		page, err := reader.Fetch(ctx, *pageURL, reader.FetchOptions{Timeout: *fetchTimeout})
		if err != nil {
			logger.Error().Err(err).Str("url", *pageURL).Msg("fetch page failed")
			fmt.Fprintf(os.Stderr, "Failed to fetch %s: %v\n", *pageURL, err)
			return 1
		}
		raw = strings.TrimSpace(page.Title + "\n" + page.Text)
	}

	eng, err := newEngine(ctx, cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
		return 1
	}
	defer eng.Close()

	result, err := eng.extractor.Extract(ctx, raw)
	if errors.Is(err, extract.ErrEmptyContent) {
		fmt.Fprintln(os.Stderr, "Input is empty")
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extract failed: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		err = printJSON(result)
	} else {
		err = writeTable([]string{"FIELD", "VALUE"}, [][]string{
			{"method", result.Method},
			{"title", result.Title},
			{"summary", truncateForTable(result.Summary, 120)},
			{"source", result.Source},
			{"content", truncateForTable(result.Content, 120)},
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}
