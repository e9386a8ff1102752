// Package dedupe removes repeated layoff records, keeping the first occurrence.
package dedupe

import (
	"context"

	"github.com/okian/layoffs/internal/domain/model"
)

// Deduper records seen record keys.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Count returns how many times key has been offered so far.
	Count(key string) int

	Size() int64
}

// inMemoryDeduper counts key occurrences in a map. It never evicts: a forgotten
// key would let a later duplicate through.
type inMemoryDeduper struct {
	seen map[string]int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]int)}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.seen[key]++
	return d.seen[key] > 1
}

func (d *inMemoryDeduper) Count(key string) int {
	return d.seen[key]
}

func (d *inMemoryDeduper) Size() int64 {
	return int64(len(d.seen))
}

// Deduplicator groups records by their identifying key.
type Deduplicator struct {
	stageInKey bool
}

// New creates a Deduplicator.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rank returns the 1-based occurrence number of every record within its key
// group, walking the input in order. Rank 1 marks the first occurrence.
func (d *Deduplicator) Rank(ctx context.Context, records []model.LayoffRecord) []int {
	seen := NewInMemoryDeduper()
	ranks := make([]int, len(records))
	for i, r := range records {
		key := r.Key(model.WithStage(d.stageInKey))
		seen.SeenAndRecord(ctx, key)
		ranks[i] = seen.Count(key)
	}
	return ranks
}

// Deduplicate keeps the first record of every key group, in first-seen order.
func (d *Deduplicator) Deduplicate(ctx context.Context, records []model.LayoffRecord) []model.LayoffRecord {
	ranks := d.Rank(ctx, records)
	out := make([]model.LayoffRecord, 0, len(records))
	for i, r := range records {
		if ranks[i] == 1 {
			out = append(out, r)
		}
	}
	return out
}

// Duplicates returns the records Deduplicate would discard. An input without
// duplicates yields an empty slice.
func (d *Deduplicator) Duplicates(ctx context.Context, records []model.LayoffRecord) []model.LayoffRecord {
	ranks := d.Rank(ctx, records)
	out := []model.LayoffRecord{}
	for i, r := range records {
		if ranks[i] > 1 {
			out = append(out, r)
		}
	}
	return out
}
