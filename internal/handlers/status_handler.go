package handlers

import (
	"net/http"

	"github.com/condoguard/frontdesk/internal/models"
)

// StatusHandler exposes backend reachability
type StatusHandler struct {
	monitor Connectivity
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(monitor Connectivity) *StatusHandler {
	return &StatusHandler{monitor: monitor}
}

// Online answers whether the engine will try the backend right now
// @Summary Check online
// @Description Platform connectivity combined with the backend health score
// @Tags status
// @Produce json
// @Success 200 {object} models.OnlineResponse
// @Security ApiKeyAuth
// @Router /api/status/online [get]
func (h *StatusHandler) Online(w http.ResponseWriter, r *http.Request) {
	st := h.monitor.Status()
	writeJSON(w, http.StatusOK, models.OnlineResponse{
		Online:      st.Online,
		Healthy:     st.Healthy,
		HealthScore: st.Score,
	})
}

// Connectivity receives the platform's online/offline signal
// @Summary Report connectivity
// @Description The kiosk shell reports network changes; going online restores full health
// @Tags status
// @Accept json
// @Produce json
// @Param request body models.ConnectivityRequest true "Connectivity"
// @Success 200 {object} models.OnlineResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/status/connectivity [post]
func (h *StatusHandler) Connectivity(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectivityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.monitor.ReportOnline(req.Online)
	h.Online(w, r)
}
