// Package api provides the REST lookup API for hydradig.
// It exposes endpoints for running lookups, health checks, and runtime
// statistics via a Gin-based HTTP server started by `hydradig serve`.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/hydradig/internal/api/handlers"
	"github.com/jroosing/hydradig/internal/api/middleware"
	"github.com/jroosing/hydradig/internal/config"
	"github.com/jroosing/hydradig/internal/history"
)

// Server is the REST lookup API server.
//
// Security note: do not expose the API to untrusted networks without an
// API key; it is bound to localhost by default.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New assembles the server. store may be nil when history is disabled.
func New(cfg *config.Config, logger *slog.Logger, runLookup handlers.LookupFunc, store *history.Store) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))

	h := handlers.New(cfg, logger, runLookup, store)
	RegisterRoutes(engine, h, cfg)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
