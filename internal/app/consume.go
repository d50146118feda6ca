package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/cli"
	"horse.fit/newsanalysis/internal/queue"
)

type consumeSummary struct {
	Messages int
	Acked    int
	Requeued int
	Rejected int
}

func runConsume(args []string) int {
	fs := flag.NewFlagSet("consume", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "-", "JSON Lines file of analysis requests (- for stdin)")
	messageTimeout := fs.Duration("message-timeout", 2*time.Minute, "Timeout per request")
	noStore := fs.Bool("no-store", false, "Run without a database; news_ids requests are rejected")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *messageTimeout <= 0 {
		fmt.Fprintln(os.Stderr, "--message-timeout must be > 0")
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	var input io.Reader = os.Stdin
	if path := strings.TrimSpace(*file); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", path, err)
			return 1
		}
		defer f.Close()
		input = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	var (
		analysisStore analysis.Store
		queueStore    queue.Store
	)
	if !*noStore {
		if err := cfg.RequireDatabase(); err != nil {
			fmt.Fprintf(os.Stderr, "%v (use --no-store for inline items only)\n", err)
			return 1
		}
		pool, store, err := connectStore(cfg, 10*time.Second)
		if err != nil {
			logger.Error().Err(err).Msg("consume failed to connect to database")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		defer pool.Close()
		analysisStore = store
		queueStore = store
	}

	eng, err := newEngine(ctx, cfg, logger, analysisStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
		return 1
	}
	defer eng.Close()

	handler := queue.NewHandler(eng.service, queueStore, logger)
	summary, err := consumeLines(ctx, input, handler, *messageTimeout, os.Stdout)
	logger.Info().
		Int("messages", summary.Messages).
		Int("acked", summary.Acked).
		Int("requeued", summary.Requeued).
		Int("rejected", summary.Rejected).
		Msg("consume finished")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Consume failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(
		os.Stderr,
		"consume messages=%d acked=%d requeued=%d rejected=%d\n",
		summary.Messages,
		summary.Acked,
		summary.Requeued,
		summary.Rejected,
	)
	if summary.Requeued > 0 || summary.Rejected > 0 {
		return 1
	}
	return 0
}

// consumeLines handles each request line and writes one JSON result per line to out.
func consumeLines(ctx context.Context, input io.Reader, handler *queue.Handler, messageTimeout time.Duration, out io.Writer) (consumeSummary, error) {
	summary := consumeSummary{}
	encoder := json.NewEncoder(out)

	err := queue.ReadLines(ctx, input, func(_ int, body []byte) error {
		msgCtx, cancel := context.WithTimeout(ctx, messageTimeout)
		defer cancel()

		result := handler.Handle(msgCtx, body)
		summary.Messages++
		switch result.Decision {
		case queue.Ack:
			summary.Acked++
		case queue.Requeue:
			summary.Requeued++
		case queue.Reject:
			summary.Rejected++
		}
		return encoder.Encode(result)
	})
	return summary, err
}
