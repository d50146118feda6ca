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
	"horse.fit/newsanalysis/internal/generative"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Second, "Database ping timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	registry, err := generative.NewRegistryFromConfig(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("generative backend setup failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer registry.Close()

	if names := registry.Names(); len(names) > 0 {
		fmt.Printf("ok: generative backends %s (default %s)\n", strings.Join(names, ", "), registry.DefaultName())
	} else {
		fmt.Println("ok: no generative backend configured, keyword heuristics only")
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		fmt.Println("ok: DATABASE_URL not set, store disabled")
		return 0
	}

	pool, _, err := connectStore(cfg, *timeout)
	if err != nil {
		logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer pool.Close()

	logger.Info().
		Dur("timeout", *timeout).
		Msg("database health check passed")
	fmt.Println("ok: database ping successful")
	return 0
}
