// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// Every mutating interaction runs one synchronous recompute pass:
// load -> signature check -> reconcile -> filter. The resulting snapshot is
// installed atomically, so a failed pass leaves the session exactly as it
// was.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/okian/salesdash/internal/adapters/session"
	"github.com/okian/salesdash/internal/domain/filter"
	"github.com/okian/salesdash/internal/domain/model"
	"github.com/okian/salesdash/internal/domain/sample"
	"github.com/okian/salesdash/internal/domain/signature"
	"github.com/okian/salesdash/internal/domain/stats"
	"github.com/okian/salesdash/internal/domain/validate"
	"github.com/okian/salesdash/internal/domain/view"
	"github.com/okian/salesdash/pkg/logger"
	"github.com/okian/salesdash/pkg/metrics"
)

// Service owns the session store and runs the recompute pipeline.
type Service struct {
	mu sync.RWMutex // serializes mutating interactions: one writer at a time

	store *session.Store
	memo  *sample.Memoized

	// Sample generation configuration
	sampleSeed   int64
	sampleSpan   int
	sampleAnchor time.Time

	// Report configuration
	trendWindow int
	topDays     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSampleSeed sets the sample generator seed.
func WithSampleSeed(seed int64) Option {
	return func(s *Service) {
		s.sampleSeed = seed
	}
}

// WithSampleSpan sets the number of days the sample covers.
func WithSampleSpan(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.sampleSpan = days
		}
	}
}

// WithSampleAnchor sets the final day of the sample span.
func WithSampleAnchor(anchor time.Time) Option {
	return func(s *Service) {
		s.sampleAnchor = anchor
	}
}

// WithTrendWindow sets the moving-average width used in reports.
func WithTrendWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.trendWindow = window
		}
	}
}

// WithTopDays sets the size of the top/bottom day tables in reports.
func WithTopDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topDays = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:       session.NewStore(),
		memo:        sample.NewMemoized(),
		sampleSeed:  sample.DefaultSeed,
		sampleSpan:  sample.DefaultSpanDays,
		trendWindow: 7,
		topDays:     10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service and establishes the sample dataset so
// pages have data to read from the first interaction on.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting session service",
		logger.Int("sampleSpanDays", s.sampleSpan),
	)

	if _, err := s.loadSampleLocked(ctx); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Stop tears the session down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "session service stopped")
}

// LoadSample (re)establishes the deterministic sample dataset.
func (s *Service) LoadSample(ctx context.Context) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSampleLocked(ctx)
}

func (s *Service) loadSampleLocked(ctx context.Context) (*session.Snapshot, error) {
	gen := sample.New(
		sample.WithSeed(s.sampleSeed),
		sample.WithSpanDays(s.sampleSpan),
		sample.WithAnchor(s.sampleAnchor),
	)
	ds, err := s.memo.Generate(ctx, gen)
	if err != nil {
		return nil, err
	}
	metrics.UpdateSampleCacheSize(s.memo.Size())
	snap := s.establish(ctx, ds)
	metrics.RecordDatasetLoaded(string(model.SourceSample))
	return snap, nil
}

// LoadUpload validates an uploaded payload and, on success, replaces the
// session dataset. On failure the previous dataset, filter state, and
// signature are untouched.
func (s *Service) LoadUpload(ctx context.Context, r io.Reader, format validate.Format) (*session.Snapshot, *validate.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, res, err := validate.Validate(ctx, r, format)
	if err != nil {
		s.logger.Warn(ctx, "upload rejected", logger.Error(err))
		return nil, nil, err
	}

	snap := s.establish(ctx, ds)
	metrics.RecordDatasetLoaded(string(model.SourceUpload))
	metrics.AddUploadRowsDropped(res.DroppedRows)
	s.logger.Info(ctx, "upload accepted",
		logger.Int("rows", ds.Len()),
		logger.Int("dropped", res.DroppedRows),
	)
	return snap, res, nil
}

// ApplyFilterEdit merges a partial filter edit, reclamps, and re-derives the
// view. The returned flag reports whether the selection was silently
// corrected.
func (s *Service) ApplyFilterEdit(ctx context.Context, edit filter.Edit) (*session.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	state, clamped := filter.ApplyEdit(prev.FilterState, edit, prev.Dataset)
	v := view.Apply(prev.Dataset, state)

	snap := &session.Snapshot{
		Dataset:     prev.Dataset,
		FilterState: state,
		Signature:   prev.Signature,
		View:        v,
	}
	s.store.Replace(ctx, snap)

	metrics.RecordFilterEdit()
	if clamped {
		metrics.RecordFilterClamp()
	}
	metrics.RecordViewRecompute(float64(time.Since(start).Milliseconds()))
	metrics.UpdateViewRows(v.Len())
	return snap, clamped, nil
}

// establish runs the recompute pipeline for a freshly loaded dataset and
// swaps the session snapshot in one atomic write.
func (s *Service) establish(ctx context.Context, ds *model.Dataset) *session.Snapshot {
	start := time.Now()

	newSig := signature.Of(ds)
	changed := true
	var prevState model.FilterState
	if prev, err := s.store.Snapshot(ctx); err == nil {
		changed = signature.Changed(prev.Signature, newSig)
		prevState = prev.FilterState
	}

	state, clamped := filter.Reconcile(prevState, ds, changed)
	v := view.Apply(ds, state)

	snap := &session.Snapshot{
		Dataset:     ds,
		FilterState: state,
		Signature:   newSig,
		View:        v,
	}
	s.store.Replace(ctx, snap)

	if changed {
		metrics.RecordFilterReset()
	}
	if clamped {
		metrics.RecordFilterClamp()
	}
	metrics.RecordViewRecompute(float64(time.Since(start).Milliseconds()))
	metrics.UpdateDatasetShape(ds.Len(), len(newSig.Categories), len(newSig.Regions))
	metrics.UpdateViewRows(v.Len())

	s.logger.Debug(ctx, "dataset established",
		logger.String("source", string(ds.Source)),
		logger.Int("rows", ds.Len()),
		logger.Bool("signatureChanged", changed),
	)
	return snap
}

// Snapshot returns the current consistent session snapshot.
func (s *Service) Snapshot(ctx context.Context) (*session.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Loaded reports whether a dataset has been established.
func (s *Service) Loaded(ctx context.Context) bool {
	return s.store.Loaded(ctx)
}

// Report computes the multi-section aggregate bundle over the current view.
// Non-positive window or topN fall back to the configured defaults.
func (s *Service) Report(ctx context.Context, window, topN int) (*stats.Report, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if window <= 0 {
		window = s.trendWindow
	}
	if topN <= 0 {
		topN = s.topDays
	}
	return stats.BuildReport(snap.View, window, topN), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"trendWindow": s.trendWindow,
		"topDays":     s.topDays,
		"sampleCache": s.memo.Size(),
	}
	if snap, err := s.store.Snapshot(ctx); err == nil {
		out["source"] = string(snap.Dataset.Source)
		out["datasetRows"] = snap.Dataset.Len()
		out["viewRows"] = snap.View.Len()
		out["categories"] = len(snap.Signature.Categories)
		out["regions"] = len(snap.Signature.Regions)
	}
	return out
}
