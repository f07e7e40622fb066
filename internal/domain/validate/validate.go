// Package validate checks uploaded tabular payloads against the required
// column contract and coerces them into a canonical dataset.
//
// The rules run in a fixed order: parse, schema, date conversion, numeric
// coercion, non-empty. A single unparsable date rejects the whole payload;
// a row with an unparsable numeric field is dropped and counted. The
// asymmetry is deliberate: a dataset with an undefined date domain would
// corrupt every downstream aggregate, while dropped metric rows are
// report-able and recoverable.
package validate

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/salesdash/internal/domain/model"
)

// Format declares how the payload should be parsed.
type Format string

// Supported upload formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat rejects formats other than CSV and XLSX.
var ErrUnknownFormat = errors.New("unknown upload format")

// Required column names, matched case-sensitively against the header row.
var requiredColumns = []string{"Date", "Category", "Region", "Sales", "Units", "Customers"}

// Accepted date layouts. ISO-8601 first; no locale guessing beyond these.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// Result reports what cleaning did to an accepted payload.
type Result struct {
	TotalRows   int // data rows in the payload (excluding header)
	DroppedRows int // rows removed for unusable numeric fields
}

// Validate parses, checks, and coerces a payload into a Dataset. It is a
// pure function over the payload bytes; on any error the returned dataset
// is nil and no partial result escapes.
func Validate(ctx context.Context, r io.Reader, format Format) (*model.Dataset, *Result, error) {
	rows, err := parse(r, format)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, parseError(errors.New("missing header row"))
	}

	idx, missing := columnIndex(rows[0])
	if len(missing) > 0 {
		return nil, nil, schemaError(missing)
	}

	data := rows[1:]
	res := &Result{TotalRows: len(data)}
	records := make([]model.Record, 0, len(data))

	for i, row := range data {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		// A short row cannot carry all required cells; treat it like a
		// row with missing numerics and drop it.
		if short(row, idx) {
			res.DroppedRows++
			continue
		}

		// Dates are fatal for the whole payload.
		date, ok := parseDate(row[idx["Date"]])
		if !ok {
			return nil, nil, dateError(i+1, row[idx["Date"]])
		}

		rec, ok := coerceNumerics(row, idx)
		if !ok {
			res.DroppedRows++
			continue
		}
		rec.Date = date
		rec.Category = strings.TrimSpace(row[idx["Category"]])
		rec.Region = strings.TrimSpace(row[idx["Region"]])
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, nil, emptyError()
	}
	return &model.Dataset{Records: records, Source: model.SourceUpload}, res, nil
}

// parse turns the raw payload into rows of cells, header first.
func parse(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatXLSX:
		return parseXLSX(r)
	default:
		return nil, ErrUnknownFormat
	}
}

func parseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per-row, not fatally
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, parseError(err)
	}
	return rows, nil
}

// parseXLSX reads sheet one of a spreadsheet workbook.
func parseXLSX(r io.Reader) ([][]string, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, parseError(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, parseError(err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, parseError(err)
	}
	return rows, nil
}

// columnIndex maps required column names to header positions and reports
// which ones are missing. Extra columns are ignored. Matching is exact and
// case-sensitive per the upload contract.
func columnIndex(header []string) (map[string]int, []string) {
	idx := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	out := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[name] = i
	}
	return out, missing
}

func short(row []string, idx map[string]int) bool {
	for _, i := range idx {
		if i >= len(row) {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Midnight(t), true
		}
	}
	return time.Time{}, false
}

// coerceNumerics converts the three metric cells. Any unparsable or
// negative value makes the row unusable.
func coerceNumerics(row []string, idx map[string]int) (model.Record, bool) {
	var rec model.Record

	sales, err := strconv.ParseFloat(strings.TrimSpace(row[idx["Sales"]]), 64)
	if err != nil || sales < 0 {
		return rec, false
	}
	units, ok := parseCount(row[idx["Units"]])
	if !ok {
		return rec, false
	}
	customers, ok := parseCount(row[idx["Customers"]])
	if !ok {
		return rec, false
	}

	rec.Sales = sales
	rec.Units = units
	rec.Customers = customers
	return rec, true
}

// parseCount accepts plain integers and whole-valued decimals, which
// spreadsheet exports commonly produce for count columns.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
