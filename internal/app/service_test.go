package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/salesdash/internal/app"
	"github.com/okian/salesdash/internal/domain/filter"
	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/validate"
	"github.com/okian/salesdash/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const uploadCSV = `Date,Category,Region,Sales,Units,Customers
2024-05-01,Books,East,120.5,12,4
2024-05-02,Books,West,80.0,8,3
2024-05-03,Toys,East,200.0,20,7
`

const brokenCSV = `Date,Category,Region,Sales,Units,Customers
not-a-date,Books,East,120.5,12,4
`

func newStarted(ctx context.Context, opts ...service.Option) *service.Service {
	opts = append(opts, service.WithLogger(logger.Get()))
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceStart(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh service", t, func() {
		svc := service.New(service.WithLogger(logger.Get()))

		Convey("Then nothing is loaded before Start", func() {
			So(svc.Loaded(ctx), ShouldBeFalse)
		})

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the sample dataset is established immediately", func() {
				So(svc.Loaded(ctx), ShouldBeTrue)
				snap, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(snap.Dataset.Source, ShouldEqual, model.SourceSample)
				So(snap.View.Len(), ShouldEqual, snap.Dataset.Len())
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestServiceDeterminism(t *testing.T) {
	ctx := context.Background()

	Convey("Given two services with the same sample configuration", t, func() {
		a := newStarted(ctx, service.WithSampleSeed(42))
		defer a.Stop()
		b := newStarted(ctx, service.WithSampleSeed(42))
		defer b.Stop()

		Convey("Then both sessions hold identical datasets", func() {
			snapA, _ := a.Snapshot(ctx)
			snapB, _ := b.Snapshot(ctx)
			So(snapA.Dataset.Records, ShouldResemble, snapB.Dataset.Records)
			So(snapA.FilterState.Equal(snapB.FilterState), ShouldBeTrue)
		})
	})
}

func TestServiceUpload(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStarted(ctx)
		defer svc.Stop()

		Convey("When a valid upload arrives", func() {
			snap, res, err := svc.LoadUpload(ctx, strings.NewReader(uploadCSV), validate.FormatCSV)

			Convey("Then the session switches to the uploaded dataset", func() {
				So(err, ShouldBeNil)
				So(res.TotalRows, ShouldEqual, 3)
				So(res.DroppedRows, ShouldEqual, 0)
				So(snap.Dataset.Source, ShouldEqual, model.SourceUpload)
				So(snap.Dataset.Len(), ShouldEqual, 3)
			})

			Convey("And the filter state was reset to the new dataset's defaults", func() {
				So(snap.FilterState.Categories, ShouldResemble, []string{"Books", "Toys"})
				So(snap.FilterState.Regions, ShouldResemble, []string{"East", "West"})
			})
		})

		Convey("When an upload fails validation", func() {
			before, _ := svc.Snapshot(ctx)
			snap, res, err := svc.LoadUpload(ctx, strings.NewReader(brokenCSV), validate.FormatCSV)

			Convey("Then the error is surfaced and nothing is returned", func() {
				So(err, ShouldNotBeNil)
				So(snap, ShouldBeNil)
				So(res, ShouldBeNil)
			})

			Convey("And the prior session state is completely untouched", func() {
				after, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(after.Dataset, ShouldEqual, before.Dataset)
				So(after.FilterState.Equal(before.FilterState), ShouldBeTrue)
				So(after.Signature.Equal(before.Signature), ShouldBeTrue)
				So(after.View, ShouldEqual, before.View)
			})
		})

		Convey("When the sample is reloaded after an upload", func() {
			_, _, err := svc.LoadUpload(ctx, strings.NewReader(uploadCSV), validate.FormatCSV)
			So(err, ShouldBeNil)
			snap, err := svc.LoadSample(ctx)

			Convey("Then the signature change resets the filters again", func() {
				So(err, ShouldBeNil)
				So(snap.Dataset.Source, ShouldEqual, model.SourceSample)
				So(snap.FilterState.DateRange.From.Equal(snap.Signature.MinDate), ShouldBeTrue)
				So(snap.FilterState.DateRange.To.Equal(snap.Signature.MaxDate), ShouldBeTrue)
			})
		})
	})
}

func TestServiceFilterEdits(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with an uploaded dataset", t, func() {
		svc := newStarted(ctx)
		defer svc.Stop()
		_, _, err := svc.LoadUpload(ctx, strings.NewReader(uploadCSV), validate.FormatCSV)
		So(err, ShouldBeNil)

		Convey("When narrowing the categories", func() {
			cats := []string{"Books"}
			snap, clamped, err := svc.ApplyFilterEdit(ctx, filter.Edit{Categories: &cats})

			Convey("Then the view is recomputed from the full dataset", func() {
				So(err, ShouldBeNil)
				So(clamped, ShouldBeFalse)
				So(snap.View.Len(), ShouldEqual, 2)
				So(snap.View.Total, ShouldEqual, 3)
			})

			Convey("And widening again restores the dropped rows", func() {
				all := []string{"Books", "Toys"}
				widened, _, err := svc.ApplyFilterEdit(ctx, filter.Edit{Categories: &all})
				So(err, ShouldBeNil)
				So(widened.View.Len(), ShouldEqual, 3)
			})
		})

		Convey("When an edit lands outside the dataset's domain", func() {
			r := model.DateRange{
				From: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC),
			}
			snap, clamped, err := svc.ApplyFilterEdit(ctx, filter.Edit{DateRange: &r})

			Convey("Then the edit is clamped instead of rejected", func() {
				So(err, ShouldBeNil)
				So(clamped, ShouldBeTrue)
				So(snap.FilterState.DateRange.From.Equal(snap.Signature.MinDate), ShouldBeTrue)
				So(snap.FilterState.DateRange.To.Equal(snap.Signature.MaxDate), ShouldBeTrue)
			})
		})

		Convey("When a reload carries the same signature", func() {
			cats := []string{"Books"}
			edited, _, err := svc.ApplyFilterEdit(ctx, filter.Edit{Categories: &cats})
			So(err, ShouldBeNil)

			snap, _, err := svc.LoadUpload(ctx, strings.NewReader(uploadCSV), validate.FormatCSV)

			Convey("Then the filter state survives the reload", func() {
				So(err, ShouldBeNil)
				So(snap.FilterState.Equal(edited.FilterState), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithLogger(logger.Get()))
		cats := []string{"Books"}

		Convey("Then filter edits fail cleanly without a dataset", func() {
			_, _, err := svc.ApplyFilterEdit(ctx, filter.Edit{Categories: &cats})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServiceReport(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStarted(ctx, service.WithTrendWindow(3), service.WithTopDays(5))
		defer svc.Stop()

		Convey("When building a report with the configured defaults", func() {
			report, err := svc.Report(ctx, 0, 0)

			Convey("Then the report reflects the configured shape", func() {
				So(err, ShouldBeNil)
				So(len(report.TopDays), ShouldEqual, 5)
				So(len(report.BottomDays), ShouldEqual, 5)
				So(len(report.Summary), ShouldEqual, 3)
				So(len(report.Rows), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When overriding the report shape per call", func() {
			report, err := svc.Report(ctx, 14, 2)

			Convey("Then the overrides win over the configuration", func() {
				So(err, ShouldBeNil)
				So(len(report.TopDays), ShouldEqual, 2)
				So(len(report.BottomDays), ShouldEqual, 2)
			})
		})

		Convey("And service stats expose the session shape", func() {
			got := svc.GetStats()
			So(got["started"], ShouldEqual, true)
			So(got["source"], ShouldEqual, string(model.SourceSample))
			So(got["datasetRows"], ShouldEqual, 90*5*4)
		})
	})
}

func TestServiceStatsConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given stats readers running alongside lifecycle transitions", t, func() {
		svc := service.New(service.WithLogger(logger.Get()))

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					got := svc.GetStats()
					if _, ok := got["started"].(bool); !ok {
						t.Error("stats missing started flag")
						return
					}
				}
			}()
		}
		for j := 0; j < 20; j++ {
			if err := svc.Start(ctx); err != nil {
				t.Fatalf("start failed: %v", err)
			}
			svc.Stop()
		}
		wg.Wait()

		Convey("Then every read observed a consistent lifecycle flag", func() {
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}
