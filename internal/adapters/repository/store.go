// Package repository keeps the raw layoffs table and its staging copy.
package repository

import (
	"context"

	"github.com/okian/layoffs/internal/domain/model"
)

// Store provides access to the raw dataset and the staging table.
type Store interface {
	// ImportRaw replaces the raw table with rows, keeping their order.
	ImportRaw(ctx context.Context, rows []model.RawRow) error

	// LoadRaw returns the raw table in import order.
	LoadRaw(ctx context.Context) ([]model.RawRow, error)

	// Stage recreates the staging table as a typed copy of the raw table and
	// returns the number of rows copied. A malformed numeric cell fails with
	// a *model.ParseError and leaves the staging table untouched.
	Stage(ctx context.Context) (int, error)

	// LoadStaging returns the staging table in row order.
	LoadStaging(ctx context.Context) ([]model.LayoffRecord, error)

	// ReplaceStaging overwrites the staging table with records.
	ReplaceStaging(ctx context.Context, records []model.LayoffRecord) error

	Close() error
}
