package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the slice of the database pool the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
	started time.Time
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		started: time.Now(),
	}
}

type DependencyStatus struct {
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	LatencyMs *float64 `json:"latency_ms"`
	Error     *string  `json:"error"`
	Timestamp string   `json:"timestamp"`
}

type HealthResponse struct {
	Status        string                      `json:"status"`
	Version       string                      `json:"version"`
	Timestamp     string                      `json:"timestamp"`
	UptimeSeconds float64                     `json:"uptime_seconds"`
	Dependencies  map[string]DependencyStatus `json:"dependencies"`
}

// Check reports overall health plus per-dependency detail. The database is
// the only dependency; an unreachable database makes the whole service
// unhealthy and the endpoint answers 503.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	dbStatus := h.checkDatabase(r.Context())

	overall := "healthy"
	statusCode := http.StatusOK
	if dbStatus.Status != "healthy" {
		overall = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:        overall,
		Version:       h.version,
		Timestamp:     now.Format(time.RFC3339),
		UptimeSeconds: time.Since(h.started).Seconds(),
		Dependencies: map[string]DependencyStatus{
			"database": dbStatus,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) DependencyStatus {
	start := time.Now()
	status := DependencyStatus{
		Name:      "database",
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.PingContext(ctx); err != nil {
		msg := err.Error()
		status.Status = "unhealthy"
		status.Error = &msg
		return status
	}

	latency := float64(time.Since(start).Microseconds()) / 1000.0
	status.LatencyMs = &latency
	return status
}
