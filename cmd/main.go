package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/layoffs/internal/adapters/repository"
	service "github.com/okian/layoffs/internal/app"
	"github.com/okian/layoffs/internal/config"
	"github.com/okian/layoffs/internal/domain/cleaner"
	"github.com/okian/layoffs/internal/domain/dedupe"
	"github.com/okian/layoffs/internal/domain/reconcile"
	"github.com/okian/layoffs/internal/domain/standardize"
	"github.com/okian/layoffs/pkg/logger"
	"github.com/okian/layoffs/pkg/metrics"
)

func main() {
	// Initialize logging with defaults until the configured format is known
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "cleaning run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run executes one cleaning job and exports metrics when configured.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN,
		repository.WithTables(cfg.RawTable, cfg.StagingTable),
		repository.WithLogger(log.Named("repository")),
	)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithStore(store),
		service.WithCleaner(newCleaner(cfg, log)),
		service.WithInputCSV(cfg.InputCSV),
		service.WithOutputCSV(cfg.OutputCSV),
		service.WithLogger(log),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn(ctx, "closing store failed", logger.Error(err))
		}
	}()

	_, runErr := svc.Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			if runErr == nil {
				return err
			}
			log.Warn(ctx, "metrics export failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	return nil
}

func newCleaner(cfg *config.Config, log logger.Logger) *cleaner.Cleaner {
	return cleaner.New(
		cleaner.WithDeduplicator(dedupe.New(dedupe.WithStageInKey(cfg.DedupeIncludeStage))),
		cleaner.WithStandardizer(standardize.New(
			standardize.WithIndustryCanonical(cfg.IndustryCanonical),
			standardize.WithCountryCanonical(cfg.CountryCanonical),
			standardize.WithDateLayout(cfg.DateLayout),
			standardize.WithTrimCountryPunctuation(cfg.TrimCountryPunctuation),
		)),
		cleaner.WithReconciler(reconcile.New(reconcile.WithPrune(cfg.PruneUnrecoverable))),
		cleaner.WithLogger(log.Named("cleaner")),
	)
}
