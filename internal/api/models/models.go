// Package models defines request and response types for the hydradig REST
// API. All types are JSON-serializable.
package models

import "time"

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}

// LookupRequest asks for a DNS lookup. RecordTypes is optional; when
// empty the configured default type set is queried.
type LookupRequest struct {
	Domain      string   `json:"domain" binding:"required"`
	RecordTypes []string `json:"record_types,omitempty"`
}

// LookupStatsResponse summarizes lookups served by this process.
type LookupStatsResponse struct {
	LookupsTotal   uint64 `json:"lookups_total"`
	DomainsMissing uint64 `json:"domains_missing"`
	Validation     uint64 `json:"validation_errors"`
}

// ServerStatsResponse contains runtime statistics.
type ServerStatsResponse struct {
	Uptime        string              `json:"uptime"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	StartTime     time.Time           `json:"start_time"`
	GoRoutines    int                 `json:"goroutines"`
	MemoryAllocMB float64             `json:"memory_alloc_mb"`
	NumCPU        int                 `json:"num_cpu"`
	LookupStats   LookupStatsResponse `json:"lookup_stats"`
	HistoryCount  *int64              `json:"history_count,omitempty"`
}
