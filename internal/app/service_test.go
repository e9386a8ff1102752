package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/layoffs/internal/adapters/csvfile"
	"github.com/okian/layoffs/internal/adapters/repository"
	service "github.com/okian/layoffs/internal/app"
	"github.com/okian/layoffs/internal/domain/model"
	"github.com/okian/layoffs/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const rawCSV = `company,location,industry,total_laid_off,percentage_laid_off,date,stage,country,funds_raised_millions
Airbnb,SF Bay Area,,30,NULL,3/3/2023,Post-IPO,United States,6400
Airbnb,SF Bay Area,Travel,1900,0.25,5/5/2020,Private Equity,United States,5400
 Included Health,SF Bay Area,Healthcare,NULL,0.06,7/25/2022,Series E,United States.,272
Coinbase,SF Bay Area,Crypto Currency,950,0.2,1/10/2023,Post-IPO,United States,549
Coinbase,SF Bay Area,Crypto Currency,950,0.2,1/10/2023,Post-IPO,United States,549
Ghost Co,Berlin,Food,NULL,NULL,2/1/2023,Unknown,Germany,NULL
`

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newService(ctx context.Context, opts ...service.Option) *service.Service {
	store, err := repository.Open(ctx, "sqlite", ":memory:")
	So(err, ShouldBeNil)
	return service.New(append([]service.Option{service.WithStore(store)}, opts...)...)
}

func TestService_Run(t *testing.T) {
	Convey("Given a raw layoffs CSV", t, func() {
		ctx := context.Background()
		in := writeTemp(t, "layoffs.csv", rawCSV)
		out := filepath.Join(t.TempDir(), "clean.csv")

		svc := newService(ctx, service.WithInputCSV(in), service.WithOutputCSV(out))
		defer func() { _ = svc.Close() }()

		Convey("When the job runs", func() {
			rep, err := svc.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then the report adds up", func() {
				So(rep.InputRows, ShouldEqual, 6)
				So(rep.DuplicatesRemoved, ShouldEqual, 1)
				So(rep.Backfilled, ShouldEqual, 1)
				So(rep.Pruned, ShouldEqual, 1)
				So(rep.OutputRows, ShouldEqual, 4)
			})

			Convey("Then the cleaned CSV is written", func() {
				rows, err := csvfile.ReadFile(ctx, out)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 4)

				So(rows[0].Company, ShouldEqual, "Airbnb")
				So(rows[0].Industry, ShouldEqual, "Travel")
				So(rows[0].Date, ShouldEqual, "2023-03-03")
				So(rows[0].PercentageLaidOff, ShouldEqual, "")

				So(rows[2].Company, ShouldEqual, "Included Health")
				So(rows[2].Country, ShouldEqual, "United States")
				So(rows[3].Industry, ShouldEqual, "Crypto")
			})

			Convey("Then running again yields the same output", func() {
				first, err := os.ReadFile(out)
				So(err, ShouldBeNil)

				again := newService(ctx, service.WithInputCSV(in), service.WithOutputCSV(out))
				defer func() { _ = again.Close() }()
				_, err = again.Run(ctx)
				So(err, ShouldBeNil)

				second, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				So(string(second), ShouldEqual, string(first))
			})

			Convey("Then cleaning the cleaned output changes nothing", func() {
				first, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				in2 := writeTemp(t, "clean-in.csv", string(first))
				out2 := filepath.Join(t.TempDir(), "clean2.csv")

				again := newService(ctx, service.WithInputCSV(in2), service.WithOutputCSV(out2))
				defer func() { _ = again.Close() }()
				rep2, err := again.Run(ctx)
				So(err, ShouldBeNil)
				So(rep2.DuplicatesRemoved, ShouldEqual, 0)
				So(rep2.Pruned, ShouldEqual, 0)

				second, err := os.ReadFile(out2)
				So(err, ShouldBeNil)
				So(string(second), ShouldEqual, string(first))
			})
		})
	})

	Convey("Given a CSV with a malformed date", t, func() {
		ctx := context.Background()
		in := writeTemp(t, "bad.csv", "company,location,industry,total_laid_off,percentage_laid_off,date,stage,country,funds_raised_millions\nFoo,NYC,Retail,10,,15/15/2023,Seed,United States,1\n")
		svc := newService(ctx, service.WithInputCSV(in))
		defer func() { _ = svc.Close() }()

		Convey("When the job runs", func() {
			_, err := svc.Run(ctx)

			Convey("Then the ParseError is returned", func() {
				So(errors.Is(err, model.ErrParse), ShouldBeTrue)
			})
		})
	})

	Convey("Given a CSV with a malformed number", t, func() {
		ctx := context.Background()
		in := writeTemp(t, "bad.csv", "company,location,industry,total_laid_off,percentage_laid_off,date,stage,country,funds_raised_millions\nFoo,NYC,Retail,ten,,1/1/2023,Seed,United States,1\n")
		svc := newService(ctx, service.WithInputCSV(in))
		defer func() { _ = svc.Close() }()

		Convey("When the job runs", func() {
			_, err := svc.Run(ctx)

			Convey("Then staging fails with a ParseError", func() {
				var perr *model.ParseError
				So(errors.As(err, &perr), ShouldBeTrue)
				So(perr.Field, ShouldEqual, "total_laid_off")
			})
		})
	})

	Convey("Given a missing input file", t, func() {
		ctx := context.Background()
		svc := newService(ctx, service.WithInputCSV(filepath.Join(t.TempDir(), "nope.csv")))
		defer func() { _ = svc.Close() }()

		Convey("Then the run fails", func() {
			_, err := svc.Run(ctx)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given a service without a store", t, func() {
		svc := service.New()

		Convey("Then Run reports ErrNoStore", func() {
			_, err := svc.Run(context.Background())
			So(errors.Is(err, service.ErrNoStore), ShouldBeTrue)
			So(svc.Close(), ShouldBeNil)
		})
	})
}
