package models

import (
	"encoding/json"
	"time"
)

// DeviceStatus is the registry status an administrator controls remotely
type DeviceStatus string

const (
	DeviceActive         DeviceStatus = "ACTIVE"
	DeviceInactive       DeviceStatus = "INACTIVE"
	DeviceDecommissioned DeviceStatus = "DECOMMISSIONED"
)

// DeviceMetadata describes the hardware running the front desk. Known keys
// are typed; anything else the backend or a newer client sends lands in Extra.
type DeviceMetadata struct {
	Platform   string                     `json:"platform,omitempty"`
	AppVersion string                     `json:"appVersion,omitempty"`
	Hostname   string                     `json:"hostname,omitempty"`
	UserAgent  string                     `json:"userAgent,omitempty"`
	Screen     string                     `json:"screen,omitempty"`
	Extra      map[string]json.RawMessage `json:"-"`
}

var knownMetadataKeys = map[string]bool{
	"platform": true, "appVersion": true, "hostname": true, "userAgent": true, "screen": true,
}

// MarshalJSON flattens Extra next to the known keys. Known keys win.
func (m DeviceMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+5)
	for k, v := range m.Extra {
		if !knownMetadataKeys[k] {
			out[k] = v
		}
	}
	put := func(k, v string) {
		if v != "" {
			b, _ := json.Marshal(v)
			out[k] = b
		}
	}
	put("platform", m.Platform)
	put("appVersion", m.AppVersion)
	put("hostname", m.Hostname)
	put("userAgent", m.UserAgent)
	put("screen", m.Screen)
	return json.Marshal(out)
}

// UnmarshalJSON fills the known keys and keeps the rest in Extra
func (m *DeviceMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = DeviceMetadata{}
	for k, v := range raw {
		var dst *string
		switch k {
		case "platform":
			dst = &m.Platform
		case "appVersion":
			dst = &m.AppVersion
		case "hostname":
			dst = &m.Hostname
		case "userAgent":
			dst = &m.UserAgent
		case "screen":
			dst = &m.Screen
		}
		if dst != nil {
			if err := json.Unmarshal(v, dst); err != nil {
				return ValidationError{"metadata." + k, "must be a string"}
			}
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]json.RawMessage)
		}
		m.Extra[k] = v
	}
	return nil
}

// DeviceRecord is the backend registry entry for a front-desk device
type DeviceRecord struct {
	ID           int64          `json:"id,omitempty"`
	Identifier   string         `json:"identifier"`
	Name         string         `json:"name"`
	CondoID      *int64         `json:"condominiumId,omitempty"`
	Status       DeviceStatus   `json:"status"`
	Metadata     DeviceMetadata `json:"metadata"`
	RegisteredAt time.Time      `json:"registeredAt,omitempty"`
	LastSeenAt   *time.Time     `json:"lastSeenAt,omitempty"`
}

// IsActive reports whether the device may keep operating
func (d *DeviceRecord) IsActive() bool {
	return d.Status == DeviceActive
}

// DeviceConfig binds this device to its condominium. One per device.
type DeviceConfig struct {
	DeviceIdentifier string      `json:"deviceIdentifier"`
	CondoID          int64       `json:"condominiumId"`
	Condominium      Condominium `json:"condominium"`
	ConfiguredAt     time.Time   `json:"configuredAt"`
}

// DeviceState is where the device sits in configuration resolution
type DeviceState string

const (
	DeviceUnconfigured        DeviceState = "UNCONFIGURED"
	DeviceConfiguredLocalOnly DeviceState = "CONFIGURED_LOCAL_ONLY"
	DeviceConfiguredVerified  DeviceState = "CONFIGURED_VERIFIED"
	DeviceBlocked             DeviceState = "BLOCKED"
)

// Configured reports whether the state allows scoped operations
func (s DeviceState) Configured() bool {
	return s == DeviceConfiguredLocalOnly || s == DeviceConfiguredVerified
}
