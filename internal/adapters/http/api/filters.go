// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/salesdash/internal/domain/filter"
)

// FiltersHandler handles filter state reads and edits.
type FiltersHandler struct {
	deps Dependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps Dependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleFilters handles GET and PATCH /filters requests.
func (h *FiltersHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPatch:
		h.handlePatch(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *FiltersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		State:  snap.FilterState,
		Domain: datasetInfo(snap),
	})
}

// handlePatch applies a partial edit. A selection outside the current
// domain is clamped, not rejected; the response carries a clamped flag so
// clients can surface the correction as informational.
func (h *FiltersHandler) handlePatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.patch_filters"
	var edit filter.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	snap, clamped, err := h.deps.ApplyFilterEdit(r.Context(), edit)
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		State:   snap.FilterState,
		Domain:  datasetInfo(snap),
		Clamped: clamped,
	})
}
