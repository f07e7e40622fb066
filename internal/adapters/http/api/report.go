// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// ReportHandler serves the multi-section aggregate bundle.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /report?window=7&top=10 requests. The response
// schema is the stable contract the exporter serializes; artifact naming
// stays with the exporter.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	window, ok := positiveParam(r, "window")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	topN, ok := positiveParam(r, "top")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	report, err := h.deps.Report(r.Context(), window, topN)
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// positiveParam reads an optional positive integer query parameter. Zero
// means the parameter was absent and the configured default applies.
func positiveParam(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
