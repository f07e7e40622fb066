package sample_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/sample"
)

func TestGenerator_Determinism(t *testing.T) {
	ctx := context.Background()

	Convey("Given two generators with the same seed", t, func() {
		a, errA := sample.New(sample.WithSeed(42)).Generate(ctx)
		b, errB := sample.New(sample.WithSeed(42)).Generate(ctx)

		Convey("Then both runs produce identical datasets", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a.Len(), ShouldEqual, b.Len())
			So(a.Records, ShouldResemble, b.Records)
		})
	})

	Convey("Given two generators with different seeds", t, func() {
		a, _ := sample.New(sample.WithSeed(42)).Generate(ctx)
		b, _ := sample.New(sample.WithSeed(7)).Generate(ctx)

		Convey("Then the values differ while the shape stays the same", func() {
			So(a.Len(), ShouldEqual, b.Len())
			So(a.Records, ShouldNotResemble, b.Records)
		})
	})
}

func TestGenerator_Shape(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default generator", t, func() {
		ds, err := sample.New().Generate(ctx)
		So(err, ShouldBeNil)

		Convey("Then it covers 90 days with the full category x region cross product", func() {
			So(ds.Len(), ShouldEqual, 90*5*4)
			So(len(ds.Categories()), ShouldEqual, 5)
			So(len(ds.Regions()), ShouldEqual, 4)
		})

		Convey("And it is tagged as the sample source", func() {
			So(ds.Source, ShouldEqual, model.SourceSample)
		})

		Convey("And the span is consecutive days ending at the anchor", func() {
			min, max := ds.DateBounds()
			So(max.Sub(min), ShouldEqual, 89*24*time.Hour)
		})

		Convey("And every metric respects its lower bound", func() {
			for _, r := range ds.Records {
				So(r.Sales, ShouldBeGreaterThanOrEqualTo, 0)
				So(r.Units, ShouldBeGreaterThanOrEqualTo, 0)
				So(r.Customers, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})

	Convey("Given a custom anchor and span", t, func() {
		anchor := time.Date(2023, time.March, 15, 12, 30, 0, 0, time.UTC)
		ds, err := sample.New(
			sample.WithAnchor(anchor),
			sample.WithSpanDays(10),
		).Generate(ctx)
		So(err, ShouldBeNil)

		Convey("Then the anchor is normalized to midnight and ends the span", func() {
			min, max := ds.DateBounds()
			So(max.Equal(time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(min.Equal(time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})
}

func TestMemoized(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memoization cache", t, func() {
		memo := sample.NewMemoized()

		Convey("When generating the same parameters twice", func() {
			first, err1 := memo.Generate(ctx, sample.New())
			second, err2 := memo.Generate(ctx, sample.New())

			Convey("Then the second call is served from cache", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldEqual, first) // same pointer, not a regeneration
				So(memo.Size(), ShouldEqual, 1)
			})
		})

		Convey("When generating different parameters", func() {
			_, _ = memo.Generate(ctx, sample.New())
			_, _ = memo.Generate(ctx, sample.New(sample.WithSeed(7)))

			Convey("Then each shape is cached separately", func() {
				So(memo.Size(), ShouldEqual, 2)
			})
		})
	})
}
