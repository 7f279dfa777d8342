package handlers

import (
	"net/http"

	"github.com/condoguard/frontdesk/internal/models"
)

// VisitHandler handles the visitor log
type VisitHandler struct {
	desk FrontDesk
}

// NewVisitHandler creates a new VisitHandler
func NewVisitHandler(desk FrontDesk) *VisitHandler {
	return &VisitHandler{desk: desk}
}

// Today lists today's visits, merged from the backend and the local queue
// @Summary Today's visits
// @Description Remote visits for today merged with entries still waiting to sync, newest first
// @Tags visits
// @Produce json
// @Success 200 {array} models.Visit
// @Failure 409 {object} models.ErrorResponse "Device not configured"
// @Security ApiKeyAuth
// @Router /api/visits/today [get]
func (h *VisitHandler) Today(w http.ResponseWriter, r *http.Request) {
	visits, err := h.desk.GetTodaysVisits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

// Create records a visitor check-in. The visit is uploaded at once when the
// backend is healthy and queued locally otherwise; both answer 201.
// @Summary Create visit
// @Description Check a visitor in. Offline check-ins get a negative local id and syncStatus PENDING_SYNC.
// @Tags visits
// @Accept json
// @Produce json
// @Param request body models.CreateVisitRequest true "Visit"
// @Success 201 {object} models.Visit
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/visits [post]
func (h *VisitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	visit, err := h.desk.CreateVisit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

// UpdateStatus changes a visit's status, e.g. to check the visitor out
// @Summary Update visit status
// @Description Applies the change locally at once and pushes it when the backend is reachable
// @Tags visits
// @Accept json
// @Produce json
// @Param id path int true "Visit ID (negative for local entries)"
// @Param request body models.UpdateVisitStatusRequest true "Status"
// @Success 200 {object} models.Visit
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/visits/{id}/status [patch]
func (h *VisitHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.UpdateVisitStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	visit, err := h.desk.UpdateVisitStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}
