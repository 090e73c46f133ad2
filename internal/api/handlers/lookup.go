package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/hydradig/internal/api/models"
	"github.com/jroosing/hydradig/internal/export"
	"github.com/jroosing/hydradig/internal/lookup"
)

// Lookup runs one DNS lookup and returns the result document.
//
// Validation failures (malformed domain, unknown record type) are 400s.
// Everything past validation is a 200: per-type failures and even global
// domain absence are part of the result body, mirroring how the engine
// never treats them as errors.
func (h *Handler) Lookup(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	domain, err := lookup.Validate(req.Domain)
	if err != nil {
		h.stats.RecordValidationError()
		var verr *lookup.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid domain"})
		return
	}

	types, err := lookup.ParseRecordTypes(req.RecordTypes)
	if err != nil {
		h.stats.RecordValidationError()
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if len(types) == 0 {
		types = h.cfg.DefaultTypes()
	}

	res := h.runLookup(c.Request.Context(), domain, types)
	h.stats.RecordLookup(res.DomainMissing())

	if h.store != nil {
		if err := h.store.Save(res); err != nil {
			h.logger.Warn("failed to record lookup history", "domain", domain, "err", err)
		}
	}

	c.JSON(http.StatusOK, export.NewDocument(res, export.Options{
		JSONIndent:       h.cfg.Export.JSONIndent,
		IncludeTimestamp: h.cfg.Export.IncludeTimestamp,
	}))
}
