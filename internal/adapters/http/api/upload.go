// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/salesdash/internal/domain/validate"
	"github.com/okian/salesdash/pkg/metrics"
)

// UploadHandler handles dataset uploads.
type UploadHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies, maxBytes int64) *UploadHandler {
	return &UploadHandler{deps: deps, maxBytes: maxBytes}
}

// uploadResponse acknowledges an accepted upload. The upload id correlates
// the response with server logs.
type uploadResponse struct {
	UploadID string          `json:"upload_id"`
	Dataset  datasetResponse `json:"dataset"`
	Dropped  int             `json:"dropped_rows"`
}

// HandleUpload handles POST /dataset/upload?format=csv|xlsx requests.
// The body is the raw file. A rejected upload leaves the session untouched.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	format := validate.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = validate.FormatCSV
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	snap, res, err := h.deps.LoadUpload(r.Context(), body, format)
	if err != nil {
		metrics.RecordUploadRejected(rejectionRule(err))
		writeLoadError(w, op, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		UploadID: uuid.New().String(),
		Dataset:  datasetInfo(snap),
		Dropped:  res.DroppedRows,
	})
}

func rejectionRule(err error) string {
	switch {
	case errors.Is(err, validate.ErrParse):
		return "parse"
	case errors.Is(err, validate.ErrSchema):
		return "schema"
	case errors.Is(err, validate.ErrDateConversion):
		return "date_conversion"
	case errors.Is(err, validate.ErrEmptyDataset):
		return "empty_dataset"
	default:
		return "other"
	}
}
