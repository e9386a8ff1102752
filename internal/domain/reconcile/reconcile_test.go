package reconcile_test

import (
	"context"
	"testing"

	"github.com/okian/layoffs/internal/domain/model"
	reconcile "github.com/okian/layoffs/internal/domain/reconcile"
	. "github.com/smartystreets/goconvey/convey"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestBackfill(t *testing.T) {
	Convey("Given records for the same company", t, func() {
		ctx := context.Background()

		Convey("When one lacks an industry and another has Retail", func() {
			recs := []model.LayoffRecord{
				{Company: "Foo", TotalLaidOff: intPtr(5)},
				{Company: "Foo", Industry: strPtr("Retail"), TotalLaidOff: intPtr(8)},
			}
			n := reconcile.Backfill(ctx, recs)

			Convey("Then the missing one receives Retail", func() {
				So(n, ShouldEqual, 1)
				So(*recs[0].Industry, ShouldEqual, "Retail")
			})
		})

		Convey("When several donors disagree", func() {
			recs := []model.LayoffRecord{
				{Company: "Foo", Industry: strPtr("")},
				{Company: "Foo", Industry: strPtr("Travel")},
				{Company: "Foo", Industry: strPtr("Retail")},
			}
			reconcile.Backfill(ctx, recs)

			Convey("Then the first donor in order wins", func() {
				So(*recs[0].Industry, ShouldEqual, "Travel")
				So(*recs[2].Industry, ShouldEqual, "Retail")
			})
		})

		Convey("When no donor exists", func() {
			recs := []model.LayoffRecord{{Company: "Bally's Interactive"}, {Company: "Other", Industry: strPtr("Media")}}
			n := reconcile.Backfill(ctx, recs)

			Convey("Then the record stays without industry", func() {
				So(n, ShouldEqual, 0)
				So(recs[0].Industry, ShouldBeNil)
			})
		})

		Convey("When filled records are mutated", func() {
			recs := []model.LayoffRecord{{Company: "Foo"}, {Company: "Foo"}, {Company: "Foo", Industry: strPtr("Retail")}}
			reconcile.Backfill(ctx, recs)
			*recs[0].Industry = "Changed"

			Convey("Then other records do not share the value", func() {
				So(*recs[1].Industry, ShouldEqual, "Retail")
				So(*recs[2].Industry, ShouldEqual, "Retail")
			})
		})
	})
}

func TestPrune(t *testing.T) {
	Convey("Given records with missing layoff measures", t, func() {
		ctx := context.Background()
		pct := 0.1
		recs := []model.LayoffRecord{
			{Company: "A", TotalLaidOff: intPtr(1)},
			{Company: "B"},
			{Company: "C", PercentageLaidOff: &pct},
		}

		Convey("When pruned", func() {
			out := reconcile.Prune(ctx, recs)

			Convey("Then records lacking both are removed", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].Company, ShouldEqual, "A")
				So(out[1].Company, ShouldEqual, "C")
			})
		})

		Convey("When listing unrecoverable records", func() {
			Convey("Then only B is listed", func() {
				bad := reconcile.Unrecoverable(recs)
				So(len(bad), ShouldEqual, 1)
				So(bad[0].Company, ShouldEqual, "B")
			})
		})
	})
}

func TestReconciler(t *testing.T) {
	Convey("Given a Reconciler", t, func() {
		ctx := context.Background()

		Convey("When the only donor is itself unrecoverable", func() {
			recs := []model.LayoffRecord{
				{Company: "Foo", TotalLaidOff: intPtr(3)},
				{Company: "Foo", Industry: strPtr("Retail")},
			}
			out, st := reconcile.New().Reconcile(ctx, recs)

			Convey("Then the survivor is backfilled before the donor is pruned", func() {
				So(len(out), ShouldEqual, 1)
				So(*out[0].Industry, ShouldEqual, "Retail")
				So(st, ShouldResemble, reconcile.Stats{Backfilled: 1, Pruned: 1})
			})
		})

		Convey("When pruning is disabled", func() {
			recs := []model.LayoffRecord{{Company: "Foo"}}
			out, st := reconcile.New(reconcile.WithPrune(false)).Reconcile(ctx, recs)

			Convey("Then nothing is removed", func() {
				So(len(out), ShouldEqual, 1)
				So(st.Pruned, ShouldEqual, 0)
			})
		})
	})
}

func TestDiagnostics(t *testing.T) {
	Convey("Given records that all have industries", t, func() {
		recs := []model.LayoffRecord{{Company: "A", Industry: strPtr("Retail")}}

		Convey("When looking up missing industries", func() {
			out := reconcile.MissingIndustry(recs)

			Convey("Then the result is empty, not an error", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})
}
