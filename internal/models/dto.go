package models

import "time"

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned on API errors
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// OnlineResponse answers checkOnline
type OnlineResponse struct {
	Online      bool `json:"online"`
	Healthy     bool `json:"healthy"`
	HealthScore int  `json:"healthScore"`
}

// ConnectivityRequest carries the platform's connectivity signal
type ConnectivityRequest struct {
	Online bool `json:"online"`
}

// UpdateVisitStatusRequest is the body of a visit status change
type UpdateVisitStatusRequest struct {
	Status VisitStatus `json:"status"`
}

// AcknowledgeIncidentRequest is the body of an incident acknowledgement
type AcknowledgeIncidentRequest struct {
	StaffID int64 `json:"staffId"`
}

// IncidentActionRequest is the body of an incident follow-up
type IncidentActionRequest struct {
	Notes  string         `json:"notes"`
	Status IncidentStatus `json:"status"`
}

// SyncResult is returned after a replay pass
type SyncResult struct {
	Synced    int       `json:"synced"`
	Pending   int       `json:"pending"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncStatusResponse summarises the local queue
type SyncStatusResponse struct {
	Pending     int         `json:"pending"`
	Healthy     bool        `json:"healthy"`
	DeviceState DeviceState `json:"deviceState"`
	LastSyncAt  *time.Time  `json:"lastSyncAt,omitempty"`
}

// ConfigureDeviceRequest binds the device to a condominium
type ConfigureDeviceRequest struct {
	CondominiumID int64  `json:"condominiumId"`
	DeviceName    string `json:"deviceName,omitempty"`
}

// DeviceConfiguredResponse answers isDeviceConfigured
type DeviceConfiguredResponse struct {
	Configured bool        `json:"configured"`
	State      DeviceState `json:"state"`
}
