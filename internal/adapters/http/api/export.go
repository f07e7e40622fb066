// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/okian/salesdash/pkg/logger"
	"github.com/okian/salesdash/pkg/metrics"
)

// exportHeader is the column order of the flat delimited export, matching
// the upload contract so an export can be re-uploaded unchanged.
var exportHeader = []string{"Date", "Category", "Region", "Sales", "Units", "Customers"}

// ExportHandler streams the filtered view as delimited text.
type ExportHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, log logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, log: log}
}

// HandleExport handles GET /export requests with a flat CSV of the current
// filtered view. Naming the downloaded artifact is the client's concern.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard_data.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, rec := range snap.View.Records {
		_ = cw.Write([]string{
			rec.Date.Format("2006-01-02"),
			rec.Category,
			rec.Region,
			strconv.FormatFloat(rec.Sales, 'f', -1, 64),
			strconv.Itoa(rec.Units),
			strconv.Itoa(rec.Customers),
		})
	}
	cw.Flush()

	// Headers are already on the wire, so a mid-stream failure cannot change
	// the status; make it visible instead of ending the download silently.
	if err := cw.Error(); err != nil {
		metrics.RecordErrorByEndpoint("export", r.Method, "stream_error")
		h.log.Warn(r.Context(), "export stream aborted",
			logger.Int("rows", snap.View.Len()),
			logger.Error(Wrap(op, err)),
		)
	}
}
