package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"horse.fit/newsanalysis/internal/queue"
)

type validateResult struct {
	Scanned int
	Valid   int
	Invalid int
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	dir := fs.String("dir", "testdata/requests", "Directory containing .json or .jsonl analysis requests")
	recursive := fs.Bool("recursive", true, "Recursively scan subdirectories")
	file := fs.String("file", "", "Validate a single .json or .jsonl file instead of --dir")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	target := strings.TrimSpace(*dir)
	var files []string
	if path := strings.TrimSpace(*file); path != "" {
		target = path
		files = []string{path}
	} else {
		collected, err := collectRequestFiles(target, *recursive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation setup failed: %v\n", err)
			return 1
		}
		files = collected
	}

	result := validateResult{}
	for _, path := range files {
		validateFile(path, &result)
	}

	fmt.Printf(
		"validate scanned=%d valid=%d invalid=%d target=%s recursive=%t\n",
		result.Scanned,
		result.Valid,
		result.Invalid,
		target,
		*recursive,
	)

	if result.Scanned == 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: no requests found under %s\n", target)
		return 1
	}
	if result.Invalid > 0 {
		return 1
	}
	return 0
}

// validateFile counts a .json file as one request and each line of a .jsonl
// file as one request.
func validateFile(path string, result *validateResult) {
	if !strings.EqualFold(filepath.Ext(path), ".jsonl") {
		result.Scanned++
		raw, err := os.ReadFile(path)
		if err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: read failed: %v\n", path, err)
			return
		}
		if _, err := queue.ValidateRequest(raw); err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: %v\n", path, err)
			return
		}
		result.Valid++
		return
	}

	f, err := os.Open(path)
	if err != nil {
		result.Scanned++
		result.Invalid++
		fmt.Fprintf(os.Stderr, "INVALID %s: read failed: %v\n", path, err)
		return
	}
	defer f.Close()

	err = queue.ReadLines(context.Background(), f, func(lineNo int, body []byte) error {
		result.Scanned++
		if _, err := queue.ValidateRequest(body); err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s:%d: %v\n", path, lineNo, err)
			return nil
		}
		result.Valid++
		return nil
	})
	if err != nil {
		result.Invalid++
		fmt.Fprintf(os.Stderr, "INVALID %s: %v\n", path, err)
	}
}

func isRequestFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".json") || strings.EqualFold(ext, ".jsonl")
}

func collectRequestFiles(root string, recursive bool) ([]string, error) {
	cleanRoot := strings.TrimSpace(root)
	if cleanRoot == "" {
		return nil, fmt.Errorf("directory path is empty")
	}

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", cleanRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cleanRoot)
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(cleanRoot)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", cleanRoot, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isRequestFile(entry.Name()) {
				files = append(files, filepath.Join(cleanRoot, entry.Name()))
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err = filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != cleanRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if isRequestFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", cleanRoot, err)
	}

	sort.Strings(files)
	return files, nil
}
