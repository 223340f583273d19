package handler

import (
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/pkg/apierror"
	"lumo-assistant-api/pkg/response"
)

// AdminHandler handles admin HTTP requests.
type AdminHandler struct {
	kv        *cache.KeyValueCache
	db        *sql.DB
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(kv *cache.KeyValueCache, db *sql.DB) *AdminHandler {
	return &AdminHandler{kv: kv, db: db, startTime: time.Now()}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_alloc_mb": float64(memStats.HeapAlloc) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	stats["cache"] = h.kv.Stats(ctx)

	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "error"
	}
	stats["database"] = map[string]interface{}{"status": dbStatus}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// FlushCache handles POST /api/v1/admin/cache/flush
func (h *AdminHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	if !h.kv.FlushAll(r.Context()) {
		response.Error(w, apierror.ServiceUnavailable("cache unavailable"))
		return
	}
	response.OK(w, map[string]string{"status": "flushed"})
}
