package handlers

import (
	"net/http"

	"github.com/condoguard/frontdesk/internal/models"
)

// IncidentHandler handles resident incident reports
type IncidentHandler struct {
	desk FrontDesk
}

// NewIncidentHandler creates a new IncidentHandler
func NewIncidentHandler(desk FrontDesk) *IncidentHandler {
	return &IncidentHandler{desk: desk}
}

// List returns the condominium's incidents
// @Summary List incidents
// @Tags incidents
// @Produce json
// @Success 200 {array} models.Incident
// @Security ApiKeyAuth
// @Router /api/incidents [get]
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.desk.GetIncidents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incidents)
}

// Acknowledge marks an incident as seen by a guard
// @Summary Acknowledge incident
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param request body models.AcknowledgeIncidentRequest true "Guard"
// @Success 200 {object} models.Incident
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/incidents/{id}/acknowledge [post]
func (h *IncidentHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.AcknowledgeIncidentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.desk.AcknowledgeIncident(r.Context(), id, req.StaffID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

// Action records the guard's follow-up notes and new status
// @Summary Report incident action
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path int true "Incident ID"
// @Param request body models.IncidentActionRequest true "Action"
// @Success 200 {object} models.Incident
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/incidents/{id}/action [post]
func (h *IncidentHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.IncidentActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	incident, err := h.desk.ReportIncidentAction(r.Context(), id, req.Notes, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}
