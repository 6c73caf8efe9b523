package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/ragvault/repositories/postgres"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// Version is the service release reported on the health endpoint.
const Version = "0.1.0"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadinessResponse is the body of GET /ready, which additionally probes
// the database.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	db     *postgres.DB
	logger *zap.Logger
}

func NewHealthHandler(db *postgres.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleHealth always returns 200: the process is up and serving requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// HandleReadiness additionally checks that the database is reachable,
// returning 503 when it is not.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK
	overall := "ok"

	if h.db == nil {
		checks["database"] = "not configured"
	} else if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "unavailable"
		h.logger.Warn("readiness check failed", zap.Error(err))
	} else {
		checks["database"] = "ok"
	}

	utils.WriteJSON(w, status, ReadinessResponse{Status: overall, Checks: checks})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	return h.db.HealthCheck(ctx)
}
