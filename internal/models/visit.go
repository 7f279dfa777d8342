package models

import (
	"strings"
	"time"
)

// VisitStatus is the gate decision for a visit
type VisitStatus string

const (
	VisitPending  VisitStatus = "PENDING"
	VisitApproved VisitStatus = "APPROVED"
	VisitDenied   VisitStatus = "DENIED"
	VisitInside   VisitStatus = "INSIDE"
	VisitLeft     VisitStatus = "LEFT"
)

// Valid reports whether s is a known status
func (s VisitStatus) Valid() bool {
	switch s {
	case VisitPending, VisitApproved, VisitDenied, VisitInside, VisitLeft:
		return true
	}
	return false
}

// ApprovalMode records how the resident authorised the visit
type ApprovalMode string

const (
	ApprovalApp       ApprovalMode = "APP"
	ApprovalPhone     ApprovalMode = "PHONE"
	ApprovalIntercom  ApprovalMode = "INTERCOM"
	ApprovalGuardOnly ApprovalMode = "GUARD_MANUAL"
	ApprovalQRCode    ApprovalMode = "QR_CODE"
)

// Visit is one entry in the gate log
type Visit struct {
	ID            RecordID     `json:"id"`
	ClientRef     string       `json:"clientRef"`
	CondoID       int64        `json:"condominiumId"`
	VisitorName   string       `json:"visitorName"`
	VisitorDoc    string       `json:"visitorDoc,omitempty"`
	VisitorPhone  string       `json:"visitorPhone,omitempty"`
	VisitTypeID   int64        `json:"visitTypeId"`
	ServiceTypeID *int64       `json:"serviceTypeId,omitempty"`
	UnitID        *int64       `json:"unitId,omitempty"`
	RestaurantID  *int64       `json:"restaurantId,omitempty"`
	SportID       *int64       `json:"sportId,omitempty"`
	VehiclePlate  string       `json:"vehiclePlate,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	PhotoURL      string       `json:"photoUrl,omitempty"`
	PhotoData     string       `json:"photoData,omitempty"`
	ApprovalMode  ApprovalMode `json:"approvalMode,omitempty"`
	Status        VisitStatus  `json:"status"`
	CheckInAt     time.Time    `json:"checkInAt"`
	CheckOutAt    *time.Time   `json:"checkOutAt,omitempty"`
	GuardID       int64        `json:"guardId"`
	DeviceID      string       `json:"deviceId,omitempty"`
	SyncStatus    SyncStatus   `json:"syncStatus"`
	SyncAttempts  int          `json:"-"`
}

// CreateVisitRequest is what the kiosk submits when a visitor arrives
type CreateVisitRequest struct {
	VisitorName   string       `json:"visitorName"`
	VisitorDoc    string       `json:"visitorDoc,omitempty"`
	VisitorPhone  string       `json:"visitorPhone,omitempty"`
	VisitTypeID   int64        `json:"visitTypeId"`
	ServiceTypeID *int64       `json:"serviceTypeId,omitempty"`
	UnitID        *int64       `json:"unitId,omitempty"`
	RestaurantID  *int64       `json:"restaurantId,omitempty"`
	SportID       *int64       `json:"sportId,omitempty"`
	VehiclePlate  string       `json:"vehiclePlate,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Photo         string       `json:"photo,omitempty"`
	ApprovalMode  ApprovalMode `json:"approvalMode,omitempty"`
	GuardID       int64        `json:"guardId"`
}

// Validate checks the fields a visit cannot be recorded without
func (r *CreateVisitRequest) Validate() error {
	if strings.TrimSpace(r.VisitorName) == "" {
		return ValidationError{"visitorName", "visitor name is required"}
	}
	if r.VisitTypeID <= 0 {
		return ValidationError{"visitTypeId", "visit type is required"}
	}
	if r.UnitID == nil && r.RestaurantID == nil && r.SportID == nil {
		return ValidationError{"unitId", "a unit or a venue is required"}
	}
	if r.GuardID <= 0 {
		return ValidationError{"guardId", "the acting staff member is required"}
	}
	if r.Photo != "" && !strings.HasPrefix(r.Photo, "data:") {
		return ValidationError{"photo", "photo must be a data URL"}
	}
	return nil
}

// NewVisit builds the canonical pending record from a validated request.
// It has no id yet.
func NewVisit(req CreateVisitRequest, condoID int64, deviceID, clientRef string, now time.Time) *Visit {
	mode := req.ApprovalMode
	if mode == "" {
		mode = ApprovalGuardOnly
	}
	return &Visit{
		ClientRef:     clientRef,
		CondoID:       condoID,
		VisitorName:   strings.TrimSpace(req.VisitorName),
		VisitorDoc:    strings.TrimSpace(req.VisitorDoc),
		VisitorPhone:  strings.TrimSpace(req.VisitorPhone),
		VisitTypeID:   req.VisitTypeID,
		ServiceTypeID: req.ServiceTypeID,
		UnitID:        req.UnitID,
		RestaurantID:  req.RestaurantID,
		SportID:       req.SportID,
		VehiclePlate:  strings.ToUpper(strings.TrimSpace(req.VehiclePlate)),
		Reason:        strings.TrimSpace(req.Reason),
		PhotoData:     req.Photo,
		ApprovalMode:  mode,
		Status:        VisitPending,
		CheckInAt:     now,
		GuardID:       req.GuardID,
		DeviceID:      deviceID,
		SyncStatus:    SyncStatusPending,
	}
}

// ApplyStatus moves the visit to status. The first move to LEFT stamps the
// check-out time.
func (v *Visit) ApplyStatus(status VisitStatus, now time.Time) error {
	if !status.Valid() {
		return ValidationError{"status", "unknown visit status " + string(status)}
	}
	v.Status = status
	if status == VisitLeft && v.CheckOutAt == nil {
		t := now
		v.CheckOutAt = &t
	}
	return nil
}

// VisitUpdate is the field set pushed to the backend after creation: a
// status change and, when the photo went up late, its URL
type VisitUpdate struct {
	Status     VisitStatus `json:"status"`
	CheckOutAt *time.Time  `json:"checkOutAt,omitempty"`
	PhotoURL   string      `json:"photoUrl,omitempty"`
}

// StatusUpdate extracts the fields a status change touches
func (v *Visit) StatusUpdate() VisitUpdate {
	return VisitUpdate{Status: v.Status, CheckOutAt: v.CheckOutAt, PhotoURL: v.PhotoURL}
}

// PhotoPending reports whether the photo is still held inline, waiting to
// be uploaded
func (v *Visit) PhotoPending() bool {
	return v.PhotoData != "" && v.PhotoURL == ""
}
