package api

import (
	"context"
	"net/http"
	"time"

	"github.com/koassets/rights-backend/internal/middleware"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	middleware.GetLoggerFromContext(r.Context()).Debug("Health check requested")

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// ReadinessCheck returns 200 if the store answers, 503 otherwise.
func (s *Server) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	logger.Debug("Readiness check requested")

	checks := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logger.Warn("Store health check failed", "error", err)
		checks["store"] = "failed: " + err.Error()
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
		return
	}

	checks["store"] = "ok"
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}
