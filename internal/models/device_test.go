package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceMetadataExtra(t *testing.T) {
	t.Run("unknown keys are kept in extra", func(t *testing.T) {
		var m DeviceMetadata
		err := json.Unmarshal([]byte(`{"platform":"linux","battery":{"level":80},"kioskMode":true}`), &m)

		require.NoError(t, err)
		assert.Equal(t, "linux", m.Platform)
		assert.JSONEq(t, `{"level":80}`, string(m.Extra["battery"]))
		assert.JSONEq(t, `true`, string(m.Extra["kioskMode"]))
	})

	t.Run("known keys override extra on encode", func(t *testing.T) {
		m := DeviceMetadata{
			Platform: "linux",
			Extra:    map[string]json.RawMessage{"platform": json.RawMessage(`"spoofed"`), "rack": json.RawMessage(`2`)},
		}

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.JSONEq(t, `{"platform":"linux","rack":2}`, string(data))
	})

	t.Run("typed keys must be strings", func(t *testing.T) {
		var m DeviceMetadata
		err := json.Unmarshal([]byte(`{"platform":3}`), &m)
		assert.Error(t, err)
	})
}

func TestStaffPIN(t *testing.T) {
	s := &Staff{FirstName: "Maria", LastName: "Souza", CondoID: 1, Role: RoleGuard}

	require.NoError(t, s.SetPIN("4321"))

	assert.True(t, s.VerifyPIN("4321"))
	assert.False(t, s.VerifyPIN("1234"))
	assert.True(t, s.Matches(" maria", "SOUZA "))
	assert.True(t, s.CanWorkAt(1))
	assert.False(t, s.CanWorkAt(2))

	admin := &Staff{Role: RoleSuperAdmin, CondoID: 1}
	assert.True(t, admin.CanWorkAt(2))

	assert.Error(t, (&Staff{}).SetPIN("12"))
}
