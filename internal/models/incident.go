package models

import (
	"strings"
	"time"
)

// IncidentStatus tracks how far the front desk has handled a report
type IncidentStatus string

const (
	IncidentNew          IncidentStatus = "NEW"
	IncidentAcknowledged IncidentStatus = "ACKNOWLEDGED"
	IncidentInProgress   IncidentStatus = "IN_PROGRESS"
	IncidentResolved     IncidentStatus = "RESOLVED"
)

// Valid reports whether s is a known status
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentNew, IncidentAcknowledged, IncidentInProgress, IncidentResolved:
		return true
	}
	return false
}

// Incident is a resident report the guards have to follow up
type Incident struct {
	ID             RecordID       `json:"id"`
	CondoID        int64          `json:"condominiumId"`
	UnitID         *int64         `json:"unitId,omitempty"`
	ResidentName   string         `json:"residentName,omitempty"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	Status         IncidentStatus `json:"status"`
	ReportedAt     time.Time      `json:"reportedAt"`
	AcknowledgedAt *time.Time     `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy *int64         `json:"acknowledgedBy,omitempty"`
	GuardNotes     string         `json:"guardNotes,omitempty"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
	SyncStatus     SyncStatus     `json:"syncStatus"`
	SyncAttempts   int            `json:"-"`
}

// Acknowledge records that staffID has seen the incident
func (i *Incident) Acknowledge(staffID int64, now time.Time) error {
	if staffID <= 0 {
		return ValidationError{"staffId", "the acknowledging staff member is required"}
	}
	t := now
	i.AcknowledgedAt = &t
	i.AcknowledgedBy = &staffID
	if i.Status == IncidentNew || i.Status == "" {
		i.Status = IncidentAcknowledged
	}
	return nil
}

// ReportAction stores the guard's notes and moves the incident to status.
// The first move to RESOLVED stamps the resolution time.
func (i *Incident) ReportAction(notes string, status IncidentStatus, now time.Time) error {
	if !status.Valid() {
		return ValidationError{"status", "unknown incident status " + string(status)}
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ValidationError{"notes", "action notes are required"}
	}
	i.GuardNotes = notes
	i.Status = status
	if status == IncidentResolved && i.ResolvedAt == nil {
		t := now
		i.ResolvedAt = &t
	}
	return nil
}

// IncidentUpdate is the field set pushed to the backend
type IncidentUpdate struct {
	Status         IncidentStatus `json:"status"`
	AcknowledgedAt *time.Time     `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy *int64         `json:"acknowledgedBy,omitempty"`
	GuardNotes     string         `json:"guardNotes,omitempty"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
}

// Update extracts the guard-editable fields
func (i *Incident) Update() IncidentUpdate {
	return IncidentUpdate{
		Status:         i.Status,
		AcknowledgedAt: i.AcknowledgedAt,
		AcknowledgedBy: i.AcknowledgedBy,
		GuardNotes:     i.GuardNotes,
		ResolvedAt:     i.ResolvedAt,
	}
}
