// Package main provides the LOBSTER message preview entry point.
// Loads both message files, prints a labelled head of each and writes
// preview_message_1.csv / preview_message_10.csv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lobster-preview/internal/config"
	"lobster-preview/internal/lobster"
	"lobster-preview/internal/logging"
	"lobster-preview/internal/observability"
	"lobster-preview/internal/pipeline"
	"lobster-preview/internal/storage/clickhouse"
	"lobster-preview/internal/storage/migrations"
	"lobster-preview/internal/storage/postgres"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling preview...\n", sig)
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one preview and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	cfg.ApplyFlags(fs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics("")

	p := pipeline.NewPreviewPipeline(
		pipeline.DefaultInputs(cfg.Message1Path, cfg.Message10Path),
		cfg.OutputDir,
	).
		WithStdout(stdout).
		WithLogger(logger).
		WithMetrics(metrics).
		WithWorkers(cfg.Workers).
		WithRows(cfg.PreviewRows, cfg.HeadRows)

	closers, err := attachSinks(ctx, p, cfg.Storage, logger)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()
	if err != nil {
		logger.Error("failed to set up preview sink", zap.Error(err))
		return 1
	}

	_, runErr := p.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}

	if runErr != nil {
		// The pipeline already printed "File not found: <path>".
		if !errors.Is(runErr, lobster.ErrFileNotFound) {
			logger.Error("preview failed", zap.Error(runErr))
		}
		return 1
	}

	return 0
}

// attachSinks connects every configured database, applies migrations and
// registers its preview store. The returned closers must run even on error.
func attachSinks(ctx context.Context, p *pipeline.PreviewPipeline, cfg config.StorageConfig, logger *zap.Logger) ([]func(), error) {
	var closers []func()

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return closers, err
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool, logger); err != nil {
			return closers, fmt.Errorf("postgres migrations: %w", err)
		}
		p.WithStore("postgres", postgres.NewPreviewStore(pool))
		logger.Info("postgres sink enabled")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN, logger)
		if err != nil {
			return closers, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { conn.Close() })

		p.WithStore("clickhouse", clickhouse.NewPreviewStore(conn))
		logger.Info("clickhouse sink enabled")
	}

	return closers, nil
}
