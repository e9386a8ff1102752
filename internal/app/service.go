// Package service runs one cleaning job: import, stage, clean, write back.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/layoffs/internal/adapters/csvfile"
	"github.com/okian/layoffs/internal/adapters/repository"
	"github.com/okian/layoffs/internal/domain/cleaner"
	"github.com/okian/layoffs/internal/domain/model"
	"github.com/okian/layoffs/pkg/logger"
	"github.com/okian/layoffs/pkg/metrics"
)

// ErrNoStore is returned when Run is called without a store.
var ErrNoStore = errors.New("service has no store")

// Service wires the staging store and the cleaner for a single run.
type Service struct {
	store   repository.Store
	cleaner *cleaner.Cleaner

	inputCSV  string
	outputCSV string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the staging store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCleaner sets the cleaning pipeline.
func WithCleaner(c *cleaner.Cleaner) Option {
	return func(s *Service) {
		if c != nil {
			s.cleaner = c
		}
	}
}

// WithInputCSV imports path into the raw table before staging.
func WithInputCSV(path string) Option {
	return func(s *Service) {
		s.inputCSV = path
	}
}

// WithOutputCSV exports the cleaned rows to path after the run.
func WithOutputCSV(path string) Option {
	return func(s *Service) {
		s.outputCSV = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. A store must be supplied with WithStore.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.cleaner == nil {
		s.cleaner = cleaner.New(cleaner.WithLogger(s.logger))
	}
	return s
}

// Run executes the job once. The raw table is never modified after import;
// the staging table ends up holding the cleaned rows. Any failure aborts the
// run and is returned; there is no retry.
func (s *Service) Run(ctx context.Context) (cleaner.Report, error) {
	rep, err := s.run(ctx)
	metrics.RecordRun(err == nil)
	return rep, err
}

func (s *Service) run(ctx context.Context) (cleaner.Report, error) {
	if s.store == nil {
		return cleaner.Report{}, ErrNoStore
	}
	start := time.Now()

	if s.inputCSV != "" {
		rows, err := csvfile.ReadFile(ctx, s.inputCSV)
		if err != nil {
			return cleaner.Report{}, fmt.Errorf("read %s: %w", s.inputCSV, err)
		}
		if err := s.store.ImportRaw(ctx, rows); err != nil {
			return cleaner.Report{}, err
		}
		s.logger.Info(ctx, "csv imported", logger.String("path", s.inputCSV), logger.Int("rows", len(rows)))
	}

	if _, err := s.store.Stage(ctx); err != nil {
		s.logParseError(ctx, err)
		return cleaner.Report{}, err
	}
	records, err := s.store.LoadStaging(ctx)
	if err != nil {
		return cleaner.Report{}, err
	}
	metrics.RecordRowsLoaded(len(records))

	res, err := s.cleaner.Clean(ctx, records)
	if err != nil {
		s.logParseError(ctx, err)
		return cleaner.Report{}, err
	}

	if err := s.store.ReplaceStaging(ctx, res.Records); err != nil {
		return res.Report, err
	}
	metrics.UpdateRowsWritten(len(res.Records))

	if s.outputCSV != "" {
		rows := make([]model.RawRow, len(res.Records))
		for i, r := range res.Records {
			rows[i] = r.Raw()
		}
		if err := csvfile.WriteFile(s.outputCSV, rows); err != nil {
			return res.Report, fmt.Errorf("write %s: %w", s.outputCSV, err)
		}
		s.logger.Info(ctx, "csv exported", logger.String("path", s.outputCSV), logger.Int("rows", len(rows)))
	}

	s.logger.Info(ctx, "cleaning run finished",
		logger.String("run_id", res.Report.RunID.String()),
		logger.Int("input", res.Report.InputRows),
		logger.Int("output", res.Report.OutputRows),
		logger.Int("duplicates_removed", res.Report.DuplicatesRemoved),
		logger.Int("backfilled", res.Report.Backfilled),
		logger.Int("pruned", res.Report.Pruned),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res.Report, nil
}

func (s *Service) logParseError(ctx context.Context, err error) {
	var perr *model.ParseError
	if errors.As(err, &perr) {
		s.logger.Error(ctx, "malformed value",
			logger.Int("position", perr.Row+1),
			logger.String("field", perr.Field),
			logger.String("value", perr.Value),
		)
	}
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
