package handlers

import (
	"net/http"
	"time"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/services"
)

// SyncHandler exposes the pending queue
type SyncHandler struct {
	desk    FrontDesk
	monitor Connectivity
	devices Devices
	replay  ReplayStatusSource
	clock   func() time.Time
}

// NewSyncHandler creates a new SyncHandler. replay may be nil.
func NewSyncHandler(desk FrontDesk, monitor Connectivity, devices Devices, replay ReplayStatusSource) *SyncHandler {
	return &SyncHandler{
		desk:    desk,
		monitor: monitor,
		devices: devices,
		replay:  replay,
		clock:   time.Now,
	}
}

// SyncStatus is the queue summary plus the background loop state
type SyncStatus struct {
	models.SyncStatusResponse
	Replay *services.ReplayStatus `json:"replay,omitempty"`
}

// Sync pushes queued visits and incident changes to the backend
// @Summary Sync pending items
// @Description Replays the local queue, visits first. Returns synced 0 when the backend is unhealthy.
// @Tags sync
// @Produce json
// @Success 200 {object} models.SyncResult
// @Security ApiKeyAuth
// @Router /api/sync [post]
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.desk.SyncPendingItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	pending, err := h.desk.PendingCount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SyncResult{
		Synced:    synced,
		Pending:   pending,
		Timestamp: h.clock().UTC(),
	})
}

// Status summarises what is waiting to sync
// @Summary Sync status
// @Tags sync
// @Produce json
// @Success 200 {object} handlers.SyncStatus
// @Security ApiKeyAuth
// @Router /api/sync/status [get]
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.desk.PendingCount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	lastSync, err := h.desk.LastSyncAt(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := SyncStatus{
		SyncStatusResponse: models.SyncStatusResponse{
			Pending:     pending,
			Healthy:     h.monitor.Status().Healthy,
			DeviceState: h.devices.State(),
			LastSyncAt:  lastSync,
		},
	}
	if h.replay != nil {
		st := h.replay.GetStatus()
		resp.Replay = &st
	}
	writeJSON(w, http.StatusOK, resp)
}
