package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"yti-common/pkg/common"
)

// HealthChecker probes a backing service.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

// HealthHandler reports the state of the graph store.
type HealthHandler struct {
	store   HealthChecker
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 5 * time.Second, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	healthy, err := h.store.IsHealthy(ctx)
	if err != nil || !healthy {
		h.logger.Warn("Health check failed", zap.Error(err))
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"fuseki": "down",
		})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"fuseki": "up",
	})
}
