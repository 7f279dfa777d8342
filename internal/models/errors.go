package models

import "errors"

// ValidationError reports a missing or malformed input field. Callers must
// fix the input before retrying.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// PolicyError is a definitive decision the operator has to see, such as a
// blocked device or a guard from another condominium.
type PolicyError struct {
	Code    string
	Message string
}

func (e PolicyError) Error() string {
	return e.Message
}

var (
	ErrDeviceBlocked      = PolicyError{"device_blocked", "this device has been deactivated by an administrator"}
	ErrTenantMismatch     = PolicyError{"tenant_mismatch", "staff member does not belong to this condominium"}
	ErrInvalidCredentials = PolicyError{"invalid_credentials", "invalid name or PIN"}
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDeviceNotConfigured = errors.New("device is not configured")
	ErrBackendUnavailable  = errors.New("backend unavailable")
)
