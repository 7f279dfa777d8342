package handlers

import (
	"net/http"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

// DeviceHandler handles provisioning of this front desk
type DeviceHandler struct {
	devices Devices
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(devices Devices) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// DeviceInfo describes this device and its binding
type DeviceInfo struct {
	Identifier string               `json:"identifier"`
	State      models.DeviceState   `json:"state"`
	Config     *models.DeviceConfig `json:"config,omitempty"`
}

// Configured resolves whether the device is bound to a condominium
// @Summary Is device configured
// @Description Checks local config, the backup file and the backend registry. A blocked device answers configured=false with state BLOCKED.
// @Tags device
// @Produce json
// @Success 200 {object} models.DeviceConfiguredResponse
// @Security ApiKeyAuth
// @Router /api/device/configured [get]
func (h *DeviceHandler) Configured(w http.ResponseWriter, r *http.Request) {
	ok, err := h.devices.IsConfigured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.DeviceConfiguredResponse{
		Configured: ok,
		State:      h.devices.State(),
	})
}

// Condominium returns the bound condominium
// @Summary Device condominium
// @Tags device
// @Produce json
// @Success 200 {object} models.Condominium
// @Failure 403 {object} models.ErrorResponse "Device blocked"
// @Failure 409 {object} models.ErrorResponse "Device not configured"
// @Security ApiKeyAuth
// @Router /api/device/condominium [get]
func (h *DeviceHandler) Condominium(w http.ResponseWriter, r *http.Request) {
	condo, err := h.devices.CondoDetails(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, condo)
}

// Configure binds the device to a condominium and registers it
// @Summary Configure device
// @Description Requires the backend. Rebinding to another condominium needs a reset first.
// @Tags device
// @Accept json
// @Produce json
// @Param request body models.ConfigureDeviceRequest true "Condominium"
// @Success 200 {object} handlers.DeviceInfo
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Unknown condominium"
// @Failure 503 {object} models.ErrorResponse "Backend unavailable"
// @Security ApiKeyAuth
// @Router /api/device/configure [post]
func (h *DeviceHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req models.ConfigureDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cfg, err := h.devices.Configure(r.Context(), req.CondominiumID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeviceInfo{
		Identifier: cfg.DeviceIdentifier,
		State:      h.devices.State(),
		Config:     cfg,
	})
}

// Reset wipes the local store and the device binding
// @Summary Reset device
// @Description Discards every local record, including entries not yet synced. The device identifier survives.
// @Tags device
// @Produce json
// @Success 200 {object} handlers.DeviceInfo
// @Security ApiKeyAuth
// @Router /api/device/reset [post]
func (h *DeviceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.devices.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	observability.WithContext(r.Context()).Warn("Device reset from the UI")

	id, err := h.devices.Identifier(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeviceInfo{Identifier: id, State: h.devices.State()})
}
