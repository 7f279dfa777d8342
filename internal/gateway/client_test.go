package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/v1", APIKey: "secret-key", Timeout: 200 * time.Millisecond}, observability.NewNopLogger())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"}, observability.NewNopLogger())
	assert.Error(t, err)
}

func TestCreateVisit(t *testing.T) {
	ctx := context.Background()
	unit := int64(101)
	visit := &models.Visit{
		ID:          models.LocalID(99),
		ClientRef:   "ref-123",
		CondoID:     9,
		VisitorName: "João Silva",
		VisitTypeID: 1,
		UnitID:      &unit,
		PhotoData:   "data:image/jpeg;base64,AAAA",
		Status:      models.VisitPending,
		GuardID:     7,
		SyncStatus:  models.SyncStatusPending,
	}

	t.Run("sends auth and idempotency key without raw photo data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/visits", r.URL.Path)
			assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
			assert.Equal(t, "ref-123", r.Header.Get("Idempotency-Key"))

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.NotContains(t, body, "photoData")
			assert.Equal(t, float64(0), body["id"])

			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"id": 501, "clientRef": "ref-123", "condominiumId": 9, "visitorName": "João Silva",
				"visitTypeId": 1, "unitId": 101, "status": "PENDING", "guardId": 7,
			})
		})

		created, err := c.CreateVisit(ctx, visit)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, models.RemoteID(501), created.ID)
	})

	t.Run("validation rejection is a nil result", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unit not found"})
		})

		created, err := c.CreateVisit(ctx, visit)

		assert.NoError(t, err)
		assert.Nil(t, created)
	})

	t.Run("server errors are transient", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "maintenance"})
		})

		_, err := c.CreateVisit(ctx, visit)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
		assert.Contains(t, err.Error(), "maintenance")
	})

	t.Run("timeouts are transient", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		})

		_, err := c.CreateVisit(ctx, visit)

		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestGetDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown device is nil", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/devices/abc-123", r.URL.Path)
			http.NotFound(w, r)
		})

		dev, err := c.GetDevice(ctx, "abc-123")

		assert.NoError(t, err)
		assert.Nil(t, dev)
	})

	t.Run("decodes status and metadata", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"identifier":"abc-123","condominiumId":9,"status":"INACTIVE","metadata":{"platform":"linux","rack":"B2"}}`))
		})

		dev, err := c.GetDevice(ctx, "abc-123")

		require.NoError(t, err)
		require.NotNil(t, dev)
		assert.False(t, dev.IsActive())
		assert.Equal(t, int64(9), *dev.CondoID)
		assert.Equal(t, "linux", dev.Metadata.Platform)
		assert.JSONEq(t, `"B2"`, string(dev.Metadata.Extra["rack"]))
	})
}

func TestUpdates(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/visits/501":
			assert.Equal(t, http.MethodPatch, r.Method)
			var body models.VisitUpdate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, models.VisitLeft, body.Status)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})

	ok, err := c.UpdateVisit(ctx, 501, models.VisitUpdate{Status: models.VisitLeft})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.UpdateIncident(ctx, 404, models.IncidentUpdate{Status: models.IncidentResolved})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyLogin(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["pin"] != "4321" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid"})
			return
		}
		writeJSON(w, http.StatusOK, models.Staff{ID: 7, CondoID: 9, FirstName: "Maria", LastName: "Souza", Role: models.RoleGuard})
	})

	staff, err := c.VerifyLogin(ctx, "Maria", "Souza", "4321")
	require.NoError(t, err)
	require.NotNil(t, staff)
	assert.Equal(t, int64(7), staff.ID)

	staff, err = c.VerifyLogin(ctx, "Maria", "Souza", "0000")
	require.NoError(t, err)
	assert.Nil(t, staff)
}

func TestListLookupsSetsKind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/lookups/restaurants", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("condominium_id"))
		writeJSON(w, http.StatusOK, []models.Lookup{{ID: 1, Name: "Bistro", CondoID: 9}})
	})

	out, err := c.ListLookups(context.Background(), models.LookupRestaurant, 9)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.LookupRestaurant, out[0].Kind)
}
