// Package cleaner runs the layoffs cleaning pipeline:
// deduplicate, standardize, reconcile nulls.
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/layoffs/internal/domain/dedupe"
	"github.com/okian/layoffs/internal/domain/model"
	"github.com/okian/layoffs/internal/domain/reconcile"
	"github.com/okian/layoffs/internal/domain/standardize"
	"github.com/okian/layoffs/pkg/logger"
	"github.com/okian/layoffs/pkg/metrics"
)

// Stage names used in reports, logs and metrics.
const (
	StageDedupe      = "dedupe"
	StageStandardize = "standardize"
	StageReconcile   = "reconcile"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID             uuid.UUID
	InputRows         int
	DuplicatesRemoved int
	Standardized      standardize.Stats
	Backfilled        int
	Pruned            int
	OutputRows        int
	Durations         map[string]time.Duration
}

// Result is the cleaned dataset plus its report.
type Result struct {
	Records []model.LayoffRecord
	Report  Report
}

// Cleaner applies the three stages in order to a working copy of a dataset.
type Cleaner struct {
	deduplicator *dedupe.Deduplicator
	standardizer *standardize.Standardizer
	reconciler   *reconcile.Reconciler
	logger       logger.Logger
}

// New creates a Cleaner with default stages.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		deduplicator: dedupe.New(),
		standardizer: standardize.New(),
		reconciler:   reconcile.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean returns a cleaned copy of records; the input is never modified.
// A malformed date aborts the run with a *model.ParseError. Cancellation is
// checked between stages. Clean is idempotent: cleaning its own output
// returns the same records.
func (c *Cleaner) Clean(ctx context.Context, records []model.LayoffRecord) (Result, error) {
	rep := Report{
		RunID:     uuid.New(),
		InputRows: len(records),
		Durations: make(map[string]time.Duration, 3),
	}
	work := model.CloneAll(records)

	// Dedupe
	start := time.Now()
	origin := keptRows(c.deduplicator.Rank(ctx, work))
	deduped := c.deduplicator.Deduplicate(ctx, work)
	rep.DuplicatesRemoved = len(work) - len(deduped)
	c.observe(&rep, StageDedupe, start)
	for _, r := range c.deduplicator.Duplicates(ctx, work) {
		c.debug(ctx, "duplicate dropped", rep.RunID, r)
	}
	c.info(ctx, "duplicates removed",
		logger.String("run_id", rep.RunID.String()),
		logger.Int("input", len(work)),
		logger.Int("removed", rep.DuplicatesRemoved),
	)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("clean canceled after %s: %w", StageDedupe, err)
	}

	// Standardize
	start = time.Now()
	st, err := c.standardizer.Standardize(ctx, deduped)
	c.observe(&rep, StageStandardize, start)
	if err != nil {
		var perr *model.ParseError
		if errors.As(err, &perr) {
			// Point back at the input row, not the deduplicated one.
			if perr.Row >= 0 && perr.Row < len(origin) {
				perr.Row = origin[perr.Row]
			}
			metrics.RecordParseError(perr.Field)
		}
		return Result{}, fmt.Errorf("standardize: %w", err)
	}
	rep.Standardized = st
	metrics.RecordValuesStandardized("company", st.CompaniesTrimmed)
	metrics.RecordValuesStandardized("industry", st.IndustriesCanonicalized+st.IndustriesBlanked)
	metrics.RecordValuesStandardized("country", st.CountriesCanonicalized)
	metrics.RecordValuesStandardized("date", st.DatesParsed)
	c.info(ctx, "records standardized",
		logger.String("run_id", rep.RunID.String()),
		logger.Int("companies_trimmed", st.CompaniesTrimmed),
		logger.Int("industries_canonicalized", st.IndustriesCanonicalized),
		logger.Int("industries_blanked", st.IndustriesBlanked),
		logger.Int("countries_canonicalized", st.CountriesCanonicalized),
		logger.Int("dates_parsed", st.DatesParsed),
	)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("clean canceled after %s: %w", StageStandardize, err)
	}

	// Reconcile
	start = time.Now()
	unrecoverable := reconcile.Unrecoverable(deduped)
	reconciled, rs := c.reconciler.Reconcile(ctx, deduped)
	pruneMsg := "row pruned"
	if rs.Pruned == 0 {
		pruneMsg = "unrecoverable row kept"
	}
	for _, r := range unrecoverable {
		c.debug(ctx, pruneMsg, rep.RunID, r)
	}
	for _, r := range reconcile.MissingIndustry(reconciled) {
		c.debug(ctx, "industry still missing", rep.RunID, r)
	}
	// Trimming, canonical values and backfill can make distinct rows equal;
	// a second dedupe pass keeps the key unique in the output.
	out := c.deduplicator.Deduplicate(ctx, reconciled)
	rep.DuplicatesRemoved += len(reconciled) - len(out)
	c.observe(&rep, StageReconcile, start)
	rep.Backfilled = rs.Backfilled
	rep.Pruned = rs.Pruned
	rep.OutputRows = len(out)
	c.info(ctx, "nulls reconciled",
		logger.String("run_id", rep.RunID.String()),
		logger.Int("backfilled", rs.Backfilled),
		logger.Int("pruned", rs.Pruned),
		logger.Int("collapsed", len(reconciled)-len(out)),
		logger.Int("output", len(out)),
	)

	metrics.RecordDuplicatesRemoved(rep.DuplicatesRemoved)
	metrics.RecordIndustriesBackfilled(rep.Backfilled)
	metrics.RecordRowsPruned(rep.Pruned)

	return Result{Records: out, Report: rep}, nil
}

func (c *Cleaner) observe(rep *Report, stage string, start time.Time) {
	d := time.Since(start)
	rep.Durations[stage] = d
	metrics.RecordStageLatency(stage, float64(d.Microseconds())/1000)
}

func (c *Cleaner) debug(ctx context.Context, msg string, runID uuid.UUID, r model.LayoffRecord) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(ctx, msg,
		logger.String("run_id", runID.String()),
		logger.String("company", r.Company),
		logger.String("location", r.Location),
		logger.String("date", r.DateText()),
		logger.String("country", r.Country),
	)
}

func (c *Cleaner) info(ctx context.Context, msg string, fields ...logger.Field) {
	if c.logger != nil {
		c.logger.Info(ctx, msg, fields...)
	}
}

// keptRows maps each position of the deduplicated slice to its input position.
func keptRows(ranks []int) []int {
	rows := make([]int, 0, len(ranks))
	for i, rank := range ranks {
		if rank == 1 {
			rows = append(rows, i)
		}
	}
	return rows
}
