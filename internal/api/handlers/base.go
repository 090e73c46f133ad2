// Package handlers implements the REST API endpoint handlers for hydradig.
//
// Endpoints:
//
//   - POST /api/v1/lookup - Run a DNS lookup for one domain
//   - GET  /api/v1/health - Health check status
//   - GET  /api/v1/stats  - Runtime statistics (uptime, memory, lookup counters)
//
// Authentication:
//
// When an API key is configured, all endpoints except /health require it
// via the X-API-Key header.
//
// The handlers are thin sinks over the lookup engine: they validate input,
// run the orchestrator, and serialize the result document. Per-type
// failures inside a lookup are part of the 200 response body; only
// validation failures produce 4xx.
package handlers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jroosing/hydradig/internal/config"
	"github.com/jroosing/hydradig/internal/history"
	"github.com/jroosing/hydradig/internal/lookup"
)

// LookupFunc runs one lookup. It exists so tests can substitute the
// orchestrator with a scripted engine.
type LookupFunc func(ctx context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result

// LookupStats counts lookups served by this process.
// All methods are safe for concurrent use.
type LookupStats struct {
	lookupsTotal   atomic.Uint64
	domainsMissing atomic.Uint64
	validationErrs atomic.Uint64
}

// RecordLookup records one completed lookup.
func (s *LookupStats) RecordLookup(missing bool) {
	s.lookupsTotal.Add(1)
	if missing {
		s.domainsMissing.Add(1)
	}
}

// RecordValidationError records a rejected domain.
func (s *LookupStats) RecordValidationError() {
	s.validationErrs.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (s *LookupStats) Snapshot() (total, missing, validation uint64) {
	return s.lookupsTotal.Load(), s.domainsMissing.Load(), s.validationErrs.Load()
}

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	runLookup LookupFunc
	store     *history.Store // nil when history is disabled
	stats     LookupStats
	startTime time.Time
}

// New creates a Handler. store may be nil to disable history recording.
func New(cfg *config.Config, logger *slog.Logger, runLookup LookupFunc, store *history.Store) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		runLookup: runLookup,
		store:     store,
		startTime: time.Now(),
	}
}
