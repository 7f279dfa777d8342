package models

// SyncStatus tells whether a local copy has been confirmed by the backend
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "SYNCED"
	SyncStatusPending SyncStatus = "PENDING_SYNC"
)

// Valid reports whether s is a known status
func (s SyncStatus) Valid() bool {
	return s == SyncStatusSynced || s == SyncStatusPending
}
