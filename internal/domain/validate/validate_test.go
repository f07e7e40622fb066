package validate_test

import (
	"context"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/validate"
)

const goodCSV = `Date,Category,Region,Sales,Units,Customers
2024-01-01,Electronics,North,1500.50,100,40
2024-01-02,Clothing,South,900,60,25
2024-01-03,Sports,East,1200.25,80,30
`

func TestValidate_CSV(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well-formed CSV payload", t, func() {
		Convey("When validating it", func() {
			ds, res, err := validate.Validate(ctx, strings.NewReader(goodCSV), validate.FormatCSV)

			Convey("Then it should produce a clean upload dataset", func() {
				So(err, ShouldBeNil)
				So(ds, ShouldNotBeNil)
				So(ds.Source, ShouldEqual, model.SourceUpload)
				So(ds.Len(), ShouldEqual, 3)
				So(res.TotalRows, ShouldEqual, 3)
				So(res.DroppedRows, ShouldEqual, 0)
			})

			Convey("And dates should be normalized to midnight UTC", func() {
				So(err, ShouldBeNil)
				want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
				So(ds.Records[0].Date.Equal(want), ShouldBeTrue)
			})

			Convey("And record order should follow the payload", func() {
				So(err, ShouldBeNil)
				So(ds.Records[0].Category, ShouldEqual, "Electronics")
				So(ds.Records[1].Category, ShouldEqual, "Clothing")
				So(ds.Records[2].Category, ShouldEqual, "Sports")
			})
		})
	})

	Convey("Given a payload with extra columns", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers,Notes\n" +
			"2024-01-01,Electronics,North,100,10,5,ignored\n"

		Convey("Then extra columns are ignored", func() {
			ds, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 1)
			So(ds.Records[0].Sales, ShouldEqual, 100.0)
		})
	})
}

func TestValidate_Rejections(t *testing.T) {
	ctx := context.Background()

	Convey("Given a payload missing the Region column", t, func() {
		payload := "Date,Category,Sales,Units,Customers\n2024-01-01,Electronics,100,10,5\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then it should fail the schema rule naming Region", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, validate.ErrSchema)
			So(err.Error(), ShouldContainSubstring, "Region")
		})
	})

	Convey("Given a payload with lowercase column names", t, func() {
		payload := "date,category,region,sales,units,customers\n2024-01-01,Electronics,North,100,10,5\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then matching is case-sensitive and all columns are missing", func() {
			So(err, ShouldWrap, validate.ErrSchema)
			So(err.Error(), ShouldContainSubstring, "Date")
			So(err.Error(), ShouldContainSubstring, "Customers")
		})
	})

	Convey("Given a payload with an unparsable date", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n" +
			"2024-01-01,Electronics,North,100,10,5\n" +
			"not-a-date,Clothing,South,90,6,2\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then the whole payload is rejected, not partially accepted", func() {
			So(err, ShouldWrap, validate.ErrDateConversion)
			So(err.Error(), ShouldContainSubstring, "not-a-date")
		})
	})

	Convey("Given a payload with zero data rows", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then it should fail the empty-dataset rule", func() {
			So(err, ShouldWrap, validate.ErrEmptyDataset)
		})
	})

	Convey("Given a payload where cleaning drops every row", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n" +
			"2024-01-01,Electronics,North,oops,10,5\n" +
			"2024-01-02,Clothing,South,90,n/a,2\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then it should fail the empty-dataset rule", func() {
			So(err, ShouldWrap, validate.ErrEmptyDataset)
		})
	})

	Convey("Given garbage bytes", t, func() {
		payload := "\"unterminated\nDate,Category\n"
		_, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

		Convey("Then it should fail the parse rule", func() {
			So(err, ShouldWrap, validate.ErrParse)
		})
	})

	Convey("Given an undeclared format", t, func() {
		_, _, err := validate.Validate(ctx, strings.NewReader(goodCSV), validate.Format("tsv"))

		Convey("Then it should be rejected outright", func() {
			So(err, ShouldWrap, validate.ErrUnknownFormat)
		})
	})
}

func TestValidate_NumericCleaning(t *testing.T) {
	ctx := context.Background()

	Convey("Given rows with unusable numeric fields", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n" +
			"2024-01-01,Electronics,North,100,10,5\n" +
			"2024-01-02,Clothing,South,not-numeric,6,2\n" +
			"2024-01-03,Sports,East,80,-4,2\n" +
			"2024-01-04,Sports,West,80,4,2\n"

		Convey("When validating", func() {
			ds, res, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)

			Convey("Then bad rows are dropped and counted, not fatal", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2)
				So(res.TotalRows, ShouldEqual, 4)
				So(res.DroppedRows, ShouldEqual, 2)
			})

			Convey("And surviving rows keep their relative order", func() {
				So(err, ShouldBeNil)
				So(ds.Records[0].Region, ShouldEqual, "North")
				So(ds.Records[1].Region, ShouldEqual, "West")
			})
		})
	})

	Convey("Given whole-valued decimal counts from a spreadsheet export", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n" +
			"2024-01-01,Electronics,North,100.5,10.0,5.0\n"

		Convey("Then counts coerce to integers", func() {
			ds, _, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)
			So(err, ShouldBeNil)
			So(ds.Records[0].Units, ShouldEqual, 10)
			So(ds.Records[0].Customers, ShouldEqual, 5)
		})
	})

	Convey("Given a short row", t, func() {
		payload := "Date,Category,Region,Sales,Units,Customers\n" +
			"2024-01-01,Electronics,North,100,10,5\n" +
			"2024-01-02,Clothing\n"

		Convey("Then the short row is dropped like a missing-numeric row", func() {
			ds, res, err := validate.Validate(ctx, strings.NewReader(payload), validate.FormatCSV)
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 1)
			So(res.DroppedRows, ShouldEqual, 1)
		})
	})
}
