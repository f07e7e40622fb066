// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/okian/salesdash/internal/domain/model"
)

// ViewHandler handles filtered view reads.
type ViewHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps Dependencies, maxLimit int) *ViewHandler {
	return &ViewHandler{deps: deps, maxLimit: maxLimit}
}

// viewResponse carries the matching records plus enough counts for a client
// to render "showing X of Y".
type viewResponse struct {
	Records   []model.Record `json:"records"`
	Matched   int            `json:"matched"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
}

// HandleGetView handles GET /view?limit=N requests. An empty view is a
// valid 200 response with zero records.
func (h *ViewHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n < limit {
			limit = n
		}
	}

	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}

	records := snap.View.Records
	truncated := false
	if len(records) > limit {
		records = records[:limit]
		truncated = true
	}
	if records == nil {
		records = []model.Record{} // empty result is data, not null
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Records:   records,
		Matched:   snap.View.Len(),
		Total:     snap.View.Total,
		Truncated: truncated,
	})
}
