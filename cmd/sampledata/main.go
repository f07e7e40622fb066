// Command sampledata writes the deterministic sample dataset as CSV, which
// is handy for exercising the upload endpoint with a known-good payload.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/okian/salesdash/internal/domain/sample"
)

func main() {
	seed := flag.Int64("seed", sample.DefaultSeed, "generator seed")
	span := flag.Int("span", sample.DefaultSpanDays, "number of consecutive days")
	anchor := flag.String("anchor", "", "final day of the span (YYYY-MM-DD, default fixed)")
	out := flag.String("out", "-", "output file, - for stdout")
	flag.Parse()

	opts := []sample.Option{
		sample.WithSeed(*seed),
		sample.WithSpanDays(*span),
	}
	if *anchor != "" {
		t, err := time.Parse("2006-01-02", *anchor)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid anchor:", err)
			os.Exit(1)
		}
		opts = append(opts, sample.WithAnchor(t))
	}

	ds, err := sample.New(opts...).Generate(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "generation failed:", err)
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create output:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Category", "Region", "Sales", "Units", "Customers"})
	for _, r := range ds.Records {
		_ = cw.Write([]string{
			r.Date.Format("2006-01-02"),
			r.Category,
			r.Region,
			strconv.FormatFloat(r.Sales, 'f', 2, 64),
			strconv.Itoa(r.Units),
			strconv.Itoa(r.Customers),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		fmt.Fprintln(os.Stderr, "write failed:", err)
		os.Exit(1)
	}
}
