// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical textual form of a cleaned event date.
const DateLayout = "2006-01-02"

// LayoffRecord is one layoff event. Pointer fields are nullable.
type LayoffRecord struct {
	Company             string
	Location            string
	Industry            *string
	TotalLaidOff        *int
	PercentageLaidOff   *float64
	RawDate             string     // date text as loaded
	Date                *time.Time // parsed event date, UTC midnight
	Stage               string
	Country             string
	FundsRaisedMillions *int
}

// RawRow is the all-text shape of a record as it sits in the raw table or CSV.
type RawRow struct {
	Company             string
	Location            string
	Industry            string
	TotalLaidOff        string
	PercentageLaidOff   string
	Date                string
	Stage               string
	Country             string
	FundsRaisedMillions string
}

// KeyOption tweaks which attributes participate in Key.
type KeyOption func(*keyConfig)

type keyConfig struct {
	withStage bool
}

// WithStage adds the funding stage to the identifying key.
func WithStage(on bool) KeyOption {
	return func(c *keyConfig) {
		c.withStage = on
	}
}

// Key returns the identifying tuple of the record, joined with a unit separator.
// Two records with equal keys are duplicates.
func (r LayoffRecord) Key(opts ...KeyOption) string {
	var cfg keyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	parts := []string{
		r.Company,
		r.Location,
		nullableString(r.Industry),
		nullableInt(r.TotalLaidOff),
		nullableFloat(r.PercentageLaidOff),
		r.DateText(),
		r.Country,
		nullableInt(r.FundsRaisedMillions),
	}
	if cfg.withStage {
		parts = append(parts, r.Stage)
	}
	return strings.Join(parts, "\x1f")
}

// DateText renders the parsed date in DateLayout, the raw text when unparsed,
// or "" when the date is missing.
func (r LayoffRecord) DateText() string {
	if r.Date != nil {
		return r.Date.Format(DateLayout)
	}
	if IsNull(r.RawDate) {
		return ""
	}
	return r.RawDate
}

// HasIndustry reports whether the industry is present and non-blank.
func (r LayoffRecord) HasIndustry() bool {
	return r.Industry != nil && strings.TrimSpace(*r.Industry) != ""
}

// Unrecoverable reports whether the record carries no layoff magnitude at all.
func (r LayoffRecord) Unrecoverable() bool {
	return r.TotalLaidOff == nil && r.PercentageLaidOff == nil
}

// Clone returns a deep copy so stages can mutate without aliasing the source.
func (r LayoffRecord) Clone() LayoffRecord {
	c := r
	if r.Industry != nil {
		v := *r.Industry
		c.Industry = &v
	}
	if r.TotalLaidOff != nil {
		v := *r.TotalLaidOff
		c.TotalLaidOff = &v
	}
	if r.PercentageLaidOff != nil {
		v := *r.PercentageLaidOff
		c.PercentageLaidOff = &v
	}
	if r.Date != nil {
		v := *r.Date
		c.Date = &v
	}
	if r.FundsRaisedMillions != nil {
		v := *r.FundsRaisedMillions
		c.FundsRaisedMillions = &v
	}
	return c
}

// CloneAll deep-copies a slice of records.
func CloneAll(records []LayoffRecord) []LayoffRecord {
	out := make([]LayoffRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func nullableString(s *string) string {
	if s == nil {
		return "\x00"
	}
	return *s
}

func nullableInt(v *int) string {
	if v == nil {
		return "\x00"
	}
	return strconv.Itoa(*v)
}

func nullableFloat(v *float64) string {
	if v == nil {
		return "\x00"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
