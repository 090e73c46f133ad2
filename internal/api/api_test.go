package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jroosing/hydradig/internal/api"
	"github.com/jroosing/hydradig/internal/config"
	"github.com/jroosing/hydradig/internal/logging"
	"github.com/jroosing/hydradig/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookup(_ context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result {
	outcomes := make(map[lookup.RecordType]lookup.Outcome, len(types))
	for _, rt := range types {
		outcomes[rt] = lookup.Outcome{Status: lookup.StatusNoRecords}
	}
	return lookup.Result{Domain: domain, Time: time.Now().UTC(), Types: types, Outcomes: outcomes}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *api.Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	return api.New(cfg, logging.Discard(), stubLookup, nil)
}

func TestServerAddr(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.API.Host = "127.0.0.1"
		cfg.API.Port = 9053
	})
	assert.Equal(t, "127.0.0.1:9053", srv.Addr())
}

func TestRoutesRegistered(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, err := json.Marshal(map[string]string{"domain": "example.com"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/lookup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyProtectsLookupButNotHealth(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.API.APIKey = "secret"
	})

	// Health is always open.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Stats requires the key.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
