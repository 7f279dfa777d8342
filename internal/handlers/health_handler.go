package handlers

import (
	"net/http"

	"github.com/condoguard/frontdesk/internal/models"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthCheck reports that the local engine is up. It says nothing about
// the backend; see /api/status/online for that.
// @Summary Health check
// @Description Liveness of the local sync engine
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Version: h.version,
	})
}
