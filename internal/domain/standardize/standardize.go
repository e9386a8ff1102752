// Package standardize normalizes text fields and dates of layoff records.
package standardize

import (
	"context"
	"strings"
	"time"

	"github.com/okian/layoffs/internal/domain/model"
)

// DefaultDateLayout is month/day/year as found in the raw dataset.
const DefaultDateLayout = "1/2/2006"

// Default canonical tables.
var (
	DefaultIndustryCanonical = map[string]string{"Crypto": "Crypto"}
	DefaultCountryCanonical  = map[string]string{"United States": "United States"}
)

// Stats counts the rewrites applied by one Standardize call.
type Stats struct {
	CompaniesTrimmed        int
	IndustriesCanonicalized int
	IndustriesBlanked       int
	CountriesCanonicalized  int
	DatesParsed             int
}

// Standardizer applies idempotent rewrites to every record.
type Standardizer struct {
	industry        PrefixPolicy
	country         PrefixPolicy
	dateLayout      string
	trimCountryDots bool
}

// New creates a Standardizer with the default policy tables.
func New(opts ...Option) *Standardizer {
	s := &Standardizer{
		industry:        NewPrefixPolicy(DefaultIndustryCanonical),
		country:         NewPrefixPolicy(DefaultCountryCanonical),
		dateLayout:      DefaultDateLayout,
		trimCountryDots: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Standardize rewrites records in place. A date that cannot be parsed fails
// the whole call with a *model.ParseError; records already processed keep
// their rewrites, so callers should pass a working copy.
func (s *Standardizer) Standardize(_ context.Context, records []model.LayoffRecord) (Stats, error) {
	var st Stats
	for i := range records {
		r := &records[i]

		if trimmed := strings.TrimSpace(r.Company); trimmed != r.Company {
			r.Company = trimmed
			st.CompaniesTrimmed++
		}

		if r.Industry != nil {
			if strings.TrimSpace(*r.Industry) == "" {
				r.Industry = nil
				st.IndustriesBlanked++
			} else if canonical, ok := s.industry.Apply(*r.Industry); ok && canonical != *r.Industry {
				r.Industry = &canonical
				st.IndustriesCanonicalized++
			}
		}

		country := r.Country
		if s.trimCountryDots {
			country = strings.TrimRight(country, ".")
		}
		if canonical, ok := s.country.Apply(country); ok {
			country = canonical
		}
		if country != r.Country {
			r.Country = country
			st.CountriesCanonicalized++
		}

		if r.Date == nil && !model.IsNull(r.RawDate) {
			d, err := s.ParseDate(r.RawDate)
			if err != nil {
				return st, &model.ParseError{Row: i, Field: "date", Value: r.RawDate, Err: err}
			}
			r.Date = &d
			st.DatesParsed++
		}
	}
	return st, nil
}

// ParseDate parses text with the configured layout, falling back to the
// canonical ISO layout so cleaned output can be standardized again.
func (s *Standardizer) ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	d, err := time.Parse(s.dateLayout, text)
	if err == nil {
		return d, nil
	}
	if iso, isoErr := time.Parse(model.DateLayout, text); isoErr == nil {
		return iso, nil
	}
	return time.Time{}, err
}
