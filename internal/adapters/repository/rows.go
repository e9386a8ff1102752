package repository

import (
	"time"

	"github.com/okian/layoffs/internal/domain/model"
)

// rawRow is the all-text layout of the raw table.
type rawRow struct {
	Position            int `gorm:"primaryKey;autoIncrement:false"`
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

// stagingRow is the typed layout of the staging table.
type stagingRow struct {
	Position            int `gorm:"primaryKey;autoIncrement:false"`
	Company             string
	Location            string
	Industry            *string
	TotalLaidOff        *int
	PercentageLaidOff   *float64
	RawDate             string
	Date                *time.Time `gorm:"type:date"`
	Stage               string
	Country             string
	FundsRaisedMillions *int
}

func toRawRow(pos int, r model.RawRow) rawRow {
	return rawRow{
		Position:            pos,
		Company:             r.Company,
		Location:            r.Location,
		Industry:            r.Industry,
		TotalLaidOff:        r.TotalLaidOff,
		PercentageLaidOff:   r.PercentageLaidOff,
		Date:                r.Date,
		Stage:               r.Stage,
		Country:             r.Country,
		FundsRaisedMillions: r.FundsRaisedMillions,
	}
}

func (r rawRow) model() model.RawRow {
	return model.RawRow{
		Company:             r.Company,
		Location:            r.Location,
		Industry:            r.Industry,
		TotalLaidOff:        r.TotalLaidOff,
		PercentageLaidOff:   r.PercentageLaidOff,
		Date:                r.Date,
		Stage:               r.Stage,
		Country:             r.Country,
		FundsRaisedMillions: r.FundsRaisedMillions,
	}
}

func toStagingRow(pos int, r model.LayoffRecord) stagingRow {
	c := r.Clone()
	var date *time.Time
	if c.Date != nil {
		d := c.Date.UTC()
		date = &d
	}
	return stagingRow{
		Position:            pos,
		Company:             c.Company,
		Location:            c.Location,
		Industry:            c.Industry,
		TotalLaidOff:        c.TotalLaidOff,
		PercentageLaidOff:   c.PercentageLaidOff,
		RawDate:             c.RawDate,
		Date:                date,
		Stage:               c.Stage,
		Country:             c.Country,
		FundsRaisedMillions: c.FundsRaisedMillions,
	}
}

func (r stagingRow) model() model.LayoffRecord {
	rec := model.LayoffRecord{
		Company:             r.Company,
		Location:            r.Location,
		Industry:            r.Industry,
		TotalLaidOff:        r.TotalLaidOff,
		PercentageLaidOff:   r.PercentageLaidOff,
		RawDate:             r.RawDate,
		Stage:               r.Stage,
		Country:             r.Country,
		FundsRaisedMillions: r.FundsRaisedMillions,
	}
	if r.Date != nil {
		d := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
		rec.Date = &d
	}
	return rec
}
