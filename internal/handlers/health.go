package handlers

import (
	"context"
	"net/http"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse represents the health check result
// swagger:model HealthResponse
type HealthResponse struct {
	// Service status
	// example: ok
	Status string `json:"status"`
}

// NewHealthHandler returns an HTTP handler reporting store availability.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Store reachable"
// @Failure 503 {object} handlers.HealthResponse "Store unreachable"
// @Router /healthz [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logRequestError(r, "health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
