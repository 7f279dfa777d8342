package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	t.Run("local ids never expose a remote id", func(t *testing.T) {
		id := LocalID(1712345678901)

		assert.True(t, id.IsLocal())
		_, ok := id.Remote()
		assert.False(t, ok)
		assert.Equal(t, int64(-1712345678901), id.Key())
	})

	t.Run("remote ids round trip through the storage key", func(t *testing.T) {
		id := RemoteID(42)

		serverID, ok := id.Remote()
		require.True(t, ok)
		assert.Equal(t, int64(42), serverID)
		assert.Equal(t, id, RecordIDFromKey(id.Key()))
	})

	t.Run("negative storage keys decode as local", func(t *testing.T) {
		id := RecordIDFromKey(-7)
		assert.True(t, id.IsLocal())
		assert.Equal(t, LocalID(7), id)
	})

	t.Run("zero value is neither local nor remote", func(t *testing.T) {
		var id RecordID
		assert.True(t, id.IsZero())
		_, ok := id.Remote()
		assert.False(t, ok)
	})

	t.Run("json uses the signed key", func(t *testing.T) {
		data, err := json.Marshal(struct {
			ID RecordID `json:"id"`
		}{LocalID(5)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":-5}`, string(data))

		var decoded struct {
			ID RecordID `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"id":12}`), &decoded))
		assert.Equal(t, RemoteID(12), decoded.ID)
	})

	t.Run("parses url path values", func(t *testing.T) {
		id, err := ParseRecordID("-99")
		require.NoError(t, err)
		assert.True(t, id.IsLocal())

		_, err = ParseRecordID("abc")
		assert.Error(t, err)
		_, err = ParseRecordID("0")
		assert.Error(t, err)
	})
}
