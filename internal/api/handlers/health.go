package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/hydradig/internal/api/models"
)

// Health returns server health status. When a history store is attached
// its connectivity is part of the check.
func (h *Handler) Health(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.StatusResponse{Status: "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats returns runtime statistics including memory, goroutines, and
// lookup counters.
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)
	total, missing, validation := h.stats.Snapshot()

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		LookupStats: models.LookupStatsResponse{
			LookupsTotal:   total,
			DomainsMissing: missing,
			Validation:     validation,
		},
	}

	if h.store != nil {
		if n, err := h.store.Count(); err == nil {
			resp.HistoryCount = &n
		}
	}

	c.JSON(http.StatusOK, resp)
}
