package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "analyze":
		return runAnalyze(args[1:])
	case "classify":
		return runClassify(args[1:])
	case "extract":
		return runExtract(args[1:])
	case "consume":
		return runConsume(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newsanalysis CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newsanalysis <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Check generative backends and database connectivity")
	fmt.Fprintln(os.Stderr, "  analyze   Analyze ad-hoc text or stored news items")
	fmt.Fprintln(os.Stderr, "  classify  Suggest categories and optionally auto-assign them")
	fmt.Fprintln(os.Stderr, "  extract   Extract title, summary and source from raw news text")
	fmt.Fprintln(os.Stderr, "  consume   Handle JSON Lines analysis requests")
	fmt.Fprintln(os.Stderr, "  validate  Validate analysis request files against the request schema")
	fmt.Fprintln(os.Stderr, "  serve     Start Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newsanalysis <command> -h\" for command-specific flags.")
}
