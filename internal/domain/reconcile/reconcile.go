// Package reconcile repairs or drops records with missing values.
package reconcile

import (
	"context"

	"github.com/okian/layoffs/internal/domain/model"
)

// Stats counts what one Reconcile call changed.
type Stats struct {
	Backfilled int
	Pruned     int
}

// Reconciler backfills missing industries and prunes unrecoverable records.
type Reconciler struct {
	skipPrune bool
}

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithPrune toggles removal of records lacking both layoff measures.
func WithPrune(on bool) Option {
	return func(r *Reconciler) {
		r.skipPrune = !on
	}
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile runs Backfill then Prune. Backfill goes first so a record that is
// about to be pruned can still donate its industry.
func (r *Reconciler) Reconcile(ctx context.Context, records []model.LayoffRecord) ([]model.LayoffRecord, Stats) {
	var st Stats
	st.Backfilled = Backfill(ctx, records)
	if r.skipPrune {
		return records, st
	}
	out := Prune(ctx, records)
	st.Pruned = len(records) - len(out)
	return out, st
}

// Backfill copies a known industry onto records of the same company that lack
// one. The donor is the first record in input order with a non-blank industry.
// It mutates records in place and returns how many were filled.
func Backfill(_ context.Context, records []model.LayoffRecord) int {
	donors := make(map[string]string)
	for _, r := range records {
		if !r.HasIndustry() {
			continue
		}
		if _, ok := donors[r.Company]; !ok {
			donors[r.Company] = *r.Industry
		}
	}

	filled := 0
	for i := range records {
		if records[i].HasIndustry() {
			continue
		}
		industry, ok := donors[records[i].Company]
		if !ok {
			continue
		}
		records[i].Industry = &industry
		filled++
	}
	return filled
}

// Prune returns the records that carry at least one layoff measure.
func Prune(_ context.Context, records []model.LayoffRecord) []model.LayoffRecord {
	out := make([]model.LayoffRecord, 0, len(records))
	for _, r := range records {
		if r.Unrecoverable() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MissingIndustry lists records without an industry. No match is an empty
// result, not an error.
func MissingIndustry(records []model.LayoffRecord) []model.LayoffRecord {
	out := []model.LayoffRecord{}
	for _, r := range records {
		if !r.HasIndustry() {
			out = append(out, r)
		}
	}
	return out
}

// Unrecoverable lists records Prune would drop.
func Unrecoverable(records []model.LayoffRecord) []model.LayoffRecord {
	out := []model.LayoffRecord{}
	for _, r := range records {
		if r.Unrecoverable() {
			out = append(out, r)
		}
	}
	return out
}
