package handler

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation.
var StartTime = time.Now()

// Handler contains the health/status endpoints and their dependencies.
type Handler struct {
	kv      *cache.KeyValueCache
	db      *sql.DB
	version string
}

// New creates the health handler.
func New(kv *cache.KeyValueCache, db *sql.DB, version string) *Handler {
	return &Handler{kv: kv, db: db, version: version}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
	response.OK(w, resp)
}

// Check represents an individual readiness check.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready     bool      `json:"ready"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// Ready handles GET /api/v1/ready. The document store must answer;
// the cache being down only degrades, so it is reported but never
// fails readiness.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := h.db.PingContext(r.Context()); err != nil {
		dbStatus = "error"
	}

	cacheStatus := "degraded"
	if h.kv.IsAvailable() {
		cacheStatus = "ok"
	}

	checks := []Check{
		{Name: "database", Status: dbStatus},
		{Name: "cache", Status: cacheStatus},
	}

	ready := dbStatus == "ok"
	resp := ReadyResponse{
		Ready:     ready,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}

// StatusResponse represents the unified status response for monitoring.
type StatusResponse struct {
	Service       string      `json:"service"`
	Status        string      `json:"status"`
	Timestamp     string      `json:"timestamp"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	MemoryMB      float64     `json:"memory_mb"`
	Cache         cache.Stats `json:"cache"`
}

// Status handles GET /api/status - unified health check for monitoring.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       "lumo-assistant-api",
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		MemoryMB:      float64(int(memoryMB*100)) / 100,
		Cache:         h.kv.Stats(r.Context()),
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
