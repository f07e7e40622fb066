// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/okian/salesdash/internal/adapters/session"
	"github.com/okian/salesdash/internal/domain/filter"
	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/stats"
	"github.com/okian/salesdash/internal/domain/validate"
	"github.com/okian/salesdash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Loaded is the precondition for every read: no handler runs against
	// an absent dataset.
	Loaded(ctx context.Context) bool

	// Snapshot returns the consistent session state all pages read.
	Snapshot(ctx context.Context) (*session.Snapshot, error)

	// LoadSample (re)establishes the deterministic sample dataset.
	LoadSample(ctx context.Context) (*session.Snapshot, error)

	// LoadUpload validates and establishes an uploaded dataset.
	LoadUpload(ctx context.Context, r io.Reader, format validate.Format) (*session.Snapshot, *validate.Result, error)

	// ApplyFilterEdit is the only write access pages get to filter state.
	ApplyFilterEdit(ctx context.Context, edit filter.Edit) (*session.Snapshot, bool, error)

	// Report computes the aggregate bundle consumed by the exporter.
	// Non-positive window or topN mean "use the configured defaults".
	Report(ctx context.Context, window, topN int) (*stats.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	datasetHandler *DatasetHandler
	uploadHandler  *UploadHandler
	filtersHandler *FiltersHandler
	viewHandler    *ViewHandler
	reportHandler  *ReportHandler
	exportHandler  *ExportHandler
}

// ServerConfig carries the request-shaping limits handlers enforce.
type ServerConfig struct {
	MaxUploadBytes int64
	MaxViewLimit   int

	// Logger for handlers that report mid-stream failures. Defaults to the
	// global logger when nil.
	Logger logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, cfg ServerConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		datasetHandler: NewDatasetHandler(deps),
		uploadHandler:  NewUploadHandler(deps, cfg.MaxUploadBytes),
		filtersHandler: NewFiltersHandler(deps),
		viewHandler:    NewViewHandler(deps, cfg.MaxViewLimit),
		reportHandler:  NewReportHandler(deps),
		exportHandler:  NewExportHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dataset", MetricsMiddleware(s.datasetHandler.HandleGetDataset, "dataset"))
	mux.HandleFunc("/dataset/sample", MetricsMiddleware(s.datasetHandler.HandleLoadSample, "dataset_sample"))
	mux.HandleFunc("/dataset/upload", MetricsMiddleware(s.uploadHandler.HandleUpload, "dataset_upload"))
	mux.HandleFunc("/filters", MetricsMiddleware(s.filtersHandler.HandleFilters, "filters"))
	mux.HandleFunc("/view", MetricsMiddleware(s.viewHandler.HandleGetView, "view"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

// datasetResponse describes the live dataset's provenance and domain.
type datasetResponse struct {
	Source     model.Source `json:"source"`
	Rows       int          `json:"rows"`
	Categories []string     `json:"categories"`
	Regions    []string     `json:"regions"`
	MinDate    time.Time    `json:"min_date"`
	MaxDate    time.Time    `json:"max_date"`
}

// filtersResponse pairs the current selection with its valid domain so a
// client can render pickers without a second round trip.
type filtersResponse struct {
	State   model.FilterState `json:"state"`
	Domain  datasetResponse   `json:"domain"`
	Clamped bool              `json:"clamped,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLoadError maps the validation taxonomy onto HTTP statuses. Parse,
// schema, and date failures are client errors; an empty-after-cleaning
// payload is well-formed but unprocessable.
func writeLoadError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, validate.ErrParse):
		writeError(w, http.StatusBadRequest, "parse_error", Wrap(op, err))
	case errors.Is(err, validate.ErrSchema):
		writeError(w, http.StatusBadRequest, "schema_error", Wrap(op, err))
	case errors.Is(err, validate.ErrDateConversion):
		writeError(w, http.StatusBadRequest, "date_conversion_error", Wrap(op, err))
	case errors.Is(err, validate.ErrEmptyDataset):
		writeError(w, http.StatusUnprocessableEntity, "empty_dataset", Wrap(op, err))
	case errors.Is(err, validate.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, "unknown_format", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

func datasetInfo(snap *session.Snapshot) datasetResponse {
	return datasetResponse{
		Source:     snap.Dataset.Source,
		Rows:       snap.Dataset.Len(),
		Categories: snap.Signature.Categories,
		Regions:    snap.Signature.Regions,
		MinDate:    snap.Signature.MinDate,
		MaxDate:    snap.Signature.MaxDate,
	}
}
