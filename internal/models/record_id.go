package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// RecordID identifies a visit or incident. A Local id is minted on the
// device for records the backend has not confirmed yet; a Remote id is
// issued by the backend. Only Remote ids may be sent to the backend.
//
// In storage and JSON the two cases share one integer column: local ids
// are negative and remote ids positive.
type RecordID struct {
	value int64
	local bool
}

// LocalID wraps a device-generated temporary id. tempID must be positive.
func LocalID(tempID int64) RecordID {
	if tempID < 0 {
		tempID = -tempID
	}
	return RecordID{value: tempID, local: true}
}

// RemoteID wraps a backend-issued id
func RemoteID(serverID int64) RecordID {
	return RecordID{value: serverID}
}

// RecordIDFromKey decodes the signed storage key
func RecordIDFromKey(key int64) RecordID {
	if key < 0 {
		return LocalID(-key)
	}
	return RemoteID(key)
}

// ParseRecordID parses the decimal form used in URLs
func ParseRecordID(s string) (RecordID, error) {
	key, err := strconv.ParseInt(s, 10, 64)
	if err != nil || key == 0 {
		return RecordID{}, fmt.Errorf("invalid record id %q", s)
	}
	return RecordIDFromKey(key), nil
}

// IsZero reports whether the id was never assigned
func (id RecordID) IsZero() bool {
	return id.value == 0
}

// IsLocal reports whether the id is a device-local temporary id
func (id RecordID) IsLocal() bool {
	return id.local
}

// Remote returns the server id, or false for a local id
func (id RecordID) Remote() (int64, bool) {
	if id.local || id.value == 0 {
		return 0, false
	}
	return id.value, true
}

// Key is the signed storage form
func (id RecordID) Key() int64 {
	if id.local {
		return -id.value
	}
	return id.value
}

func (id RecordID) String() string {
	if id.local {
		return "local:" + strconv.FormatInt(id.value, 10)
	}
	return strconv.FormatInt(id.value, 10)
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Key())
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	var key int64
	if err := json.Unmarshal(data, &key); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordIDFromKey(key)
	return nil
}

// Value implements driver.Valuer
func (id RecordID) Value() (driver.Value, error) {
	return id.Key(), nil
}

// Scan implements sql.Scanner
func (id *RecordID) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*id = RecordIDFromKey(v)
		return nil
	case nil:
		*id = RecordID{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RecordID", src)
	}
}
