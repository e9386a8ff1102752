// Package csvfile reads and writes the layoffs dataset as CSV.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/layoffs/internal/domain/model"
)

// Columns is the header of a layoffs CSV, in output order.
var Columns = []string{ //nolint:gochecknoglobals // fixed file layout
	"company",
	"location",
	"industry",
	"total_laid_off",
	"percentage_laid_off",
	"date",
	"stage",
	"country",
	"funds_raised_millions",
}

// Read parses a layoffs CSV. Columns are matched by header name, so their
// order may differ from Columns; extra columns are ignored.
func Read(ctx context.Context, r io.Reader) ([]model.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrHeader)
		}
		return nil, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrRecord, line, err)
		}
		if len(rec) < len(header) {
			return nil, fmt.Errorf("%w: line %d: %d fields, want %d", ErrRecord, line, len(rec), len(header))
		}
		cell := func(col string) string { return rec[index[col]] }
		rows = append(rows, model.RawRow{
			Company:             cell("company"),
			Location:            cell("location"),
			Industry:            cell("industry"),
			TotalLaidOff:        cell("total_laid_off"),
			PercentageLaidOff:   cell("percentage_laid_off"),
			Date:                cell("date"),
			Stage:               cell("stage"),
			Country:             cell("country"),
			FundsRaisedMillions: cell("funds_raised_millions"),
		})
	}
	return rows, nil
}

// ReadFile opens path and reads it with Read.
func ReadFile(ctx context.Context, path string) ([]model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(ctx, f)
}

// Write emits the header and one line per row.
func Write(w io.Writer, rows []model.RawRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Company,
			r.Location,
			r.Industry,
			r.TotalLaidOff,
			r.PercentageLaidOff,
			r.Date,
			r.Stage,
			r.Country,
			r.FundsRaisedMillions,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates or truncates path and writes rows to it.
func WriteFile(path string, rows []model.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrHeader, strings.Join(missing, ", "))
	}
	return index, nil
}
