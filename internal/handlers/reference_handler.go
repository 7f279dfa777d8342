package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condoguard/frontdesk/internal/models"
)

// ReferenceHandler serves the lists the kiosk forms are built from
type ReferenceHandler struct {
	desk FrontDesk
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(desk FrontDesk) *ReferenceHandler {
	return &ReferenceHandler{desk: desk}
}

// Lookups returns one configuration list
// @Summary Lookup list
// @Description Cached copy first, refreshed from the backend in the background
// @Tags reference
// @Produce json
// @Param kind path string true "visit_types, service_types, restaurants or sports"
// @Success 200 {array} models.Lookup
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/lookups/{kind} [get]
func (h *ReferenceHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	items, err := h.desk.GetLookups(r.Context(), models.LookupKind(chi.URLParam(r, "kind")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Units returns the condominium's units
// @Summary Units
// @Tags reference
// @Produce json
// @Success 200 {array} models.Unit
// @Security ApiKeyAuth
// @Router /api/units [get]
func (h *ReferenceHandler) Units(w http.ResponseWriter, r *http.Request) {
	units, err := h.desk.GetUnits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

// Staff returns the condominium's staff
// @Summary Staff
// @Tags reference
// @Produce json
// @Success 200 {array} models.Staff
// @Security ApiKeyAuth
// @Router /api/staff [get]
func (h *ReferenceHandler) Staff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.desk.GetStaff(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}
