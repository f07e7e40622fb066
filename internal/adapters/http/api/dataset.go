// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// DatasetHandler handles dataset provenance and sample (re)loads.
type DatasetHandler struct {
	deps Dependencies
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps Dependencies) *DatasetHandler {
	return &DatasetHandler{deps: deps}
}

// HandleGetDataset handles GET /dataset requests.
func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dataset"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_dataset", NewKind(op, ErrNoDataset))
		return
	}
	writeJSON(w, http.StatusOK, datasetInfo(snap))
}

// HandleLoadSample handles POST /dataset/sample requests, switching the
// session back to the deterministic sample dataset.
func (h *DatasetHandler) HandleLoadSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.load_sample"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.LoadSample(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, datasetInfo(snap))
}
