package http_handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/farmassist/auth-service/internal/logger"
)

// ReadinessCheck is a named dependency check, e.g. the database or Redis.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []ReadinessCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	for _, c := range h.checks {
		if c.Check == nil {
			continue
		}
		if err := c.Check(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().
				Err(err).
				Str("dependency", c.Name).
				Msg("readiness check failed")
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  c.Name + " unavailable",
			})
			return
		}
	}

	writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
