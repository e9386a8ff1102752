package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// IsNull reports whether a raw cell stands for a missing value.
func IsNull(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

// ParseRow converts a raw text row into a LayoffRecord. Numeric cells are
// coerced here; the date stays textual until standardization.
func ParseRow(row int, raw RawRow) (LayoffRecord, error) {
	rec := LayoffRecord{
		Company:  raw.Company,
		Location: raw.Location,
		RawDate:  strings.TrimSpace(raw.Date),
		Stage:    raw.Stage,
		Country:  raw.Country,
	}
	if !IsNull(raw.Industry) {
		industry := raw.Industry
		rec.Industry = &industry
	}

	var err error
	if rec.TotalLaidOff, err = parseInt(row, "total_laid_off", raw.TotalLaidOff); err != nil {
		return LayoffRecord{}, err
	}
	if rec.PercentageLaidOff, err = parseFloat(row, "percentage_laid_off", raw.PercentageLaidOff); err != nil {
		return LayoffRecord{}, err
	}
	if rec.FundsRaisedMillions, err = parseInt(row, "funds_raised_millions", raw.FundsRaisedMillions); err != nil {
		return LayoffRecord{}, err
	}
	return rec, nil
}

// ParseRows converts every raw row, stopping at the first malformed one.
func ParseRows(rows []RawRow) ([]LayoffRecord, error) {
	out := make([]LayoffRecord, 0, len(rows))
	for i, raw := range rows {
		rec, err := ParseRow(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Raw renders the record back to its text shape. Nulls become empty cells.
func (r LayoffRecord) Raw() RawRow {
	raw := RawRow{
		Company:  r.Company,
		Location: r.Location,
		Date:     r.DateText(),
		Stage:    r.Stage,
		Country:  r.Country,
	}
	if r.Industry != nil {
		raw.Industry = *r.Industry
	}
	if r.TotalLaidOff != nil {
		raw.TotalLaidOff = strconv.Itoa(*r.TotalLaidOff)
	}
	if r.PercentageLaidOff != nil {
		raw.PercentageLaidOff = strconv.FormatFloat(*r.PercentageLaidOff, 'f', -1, 64)
	}
	if r.FundsRaisedMillions != nil {
		raw.FundsRaisedMillions = strconv.Itoa(*r.FundsRaisedMillions)
	}
	return raw
}

// maxExactInt bounds the integers a float64 represents without loss.
const maxExactInt = 1 << 53

// parseInt reads the cell as a decimal number and requires a whole value.
// Going through the float parser keeps "010" at ten instead of octal eight.
func parseInt(row int, field, s string) (*int, error) {
	if IsNull(s) {
		return nil, nil
	}
	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return nil, &ParseError{Row: row, Field: field, Value: s, Err: err}
	}
	if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return nil, &ParseError{Row: row, Field: field, Value: s, Err: ErrNotInteger}
	}
	v := int(f)
	return &v, nil
}

func parseFloat(row int, field, s string) (*float64, error) {
	if IsNull(s) {
		return nil, nil
	}
	v, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return nil, &ParseError{Row: row, Field: field, Value: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &ParseError{Row: row, Field: field, Value: s, Err: ErrNotFinite}
	}
	return &v, nil
}
