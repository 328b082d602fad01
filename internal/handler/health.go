package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// HealthHandler answers GET /health. It returns 503 naming the failed
// dependencies when any check fails; error details only go to the log.
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks map[string]Check, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var failed []string
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("health check failed", "check", name, "error", err)
			failed = append(failed, name)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(failed) > 0 {
		slices.Sort(failed)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("UNAVAILABLE: " + strings.Join(failed, ", ")))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
