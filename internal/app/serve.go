package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horse.fit/newsanalysis/internal/analysis"
	"horse.fit/newsanalysis/internal/cli"
	"horse.fit/newsanalysis/internal/httpapi"
	"horse.fit/newsanalysis/internal/logging"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 2*time.Minute, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	noStore := fs.Bool("no-store", false, "Serve text endpoints only, without a database")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
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
		apiStore      httpapi.Store
	)
	if !*noStore {
		if err := cfg.RequireDatabase(); err != nil {
			fmt.Fprintf(os.Stderr, "%v (use --no-store for text endpoints only)\n", err)
			return 1
		}
		pool, store, err := connectStore(cfg, 10*time.Second)
		if err != nil {
			logger.Error().Err(err).Msg("serve failed to connect to database")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		defer pool.Close()
		analysisStore = store
		apiStore = store
	}

	eng, err := newEngine(ctx, cfg, logger, analysisStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize analyzers: %v\n", err)
		return 1
	}
	defer eng.Close()

	if eng.backend == "" {
		logger.Warn().Msg("no generative backend configured; classification and extraction use keyword heuristics")
	}

	srv := httpapi.NewServer(eng.service, apiStore, eng.extractor, logging.Component(logger, "httpapi"), httpapi.Options{
		Host:                *host,
		Port:                *port,
		ReadTimeout:         *readTimeout,
		WriteTimeout:        *writeTimeout,
		ShutdownTimeout:     *shutdownTimeout,
		AllowedOrigins:      cfg.CORSAllowedOriginsList(),
		AutoAssignThreshold: &cfg.AutoAssignThreshold,
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
