package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation models.ValidationError
	var policy models.PolicyError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: validation.Message, Code: "validation", Field: validation.Field})
	case errors.As(err, &policy):
		status := http.StatusForbidden
		if policy == models.ErrInvalidCredentials {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, models.ErrorResponse{Error: policy.Message, Code: policy.Code})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, models.ErrDeviceNotConfigured):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error(), Code: "device_not_configured"})
	case errors.Is(err, models.ErrBackendUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: err.Error(), Code: "backend_unavailable"})
	default:
		observability.WithContext(r.Context()).
			WithField("path", r.URL.Path).
			WithError(err).
			Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ValidationError{Field: "body", Message: "invalid request body"}
	}
	return nil
}

func recordIDParam(r *http.Request) (models.RecordID, error) {
	id, err := models.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		return models.RecordID{}, models.ValidationError{Field: "id", Message: err.Error()}
	}
	return id, nil
}
