package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCreateVisitRequestValidate(t *testing.T) {
	valid := func() CreateVisitRequest {
		return CreateVisitRequest{
			VisitorName: "João Silva",
			VisitTypeID: 1,
			UnitID:      int64Ptr(101),
			GuardID:     7,
		}
	}

	t.Run("accepts a unit visit", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("accepts a venue instead of a unit", func(t *testing.T) {
		req := valid()
		req.UnitID = nil
		req.RestaurantID = int64Ptr(3)
		assert.NoError(t, req.Validate())
	})

	cases := []struct {
		name  string
		edit  func(*CreateVisitRequest)
		field string
	}{
		{"missing visitor name", func(r *CreateVisitRequest) { r.VisitorName = "  " }, "visitorName"},
		{"missing visit type", func(r *CreateVisitRequest) { r.VisitTypeID = 0 }, "visitTypeId"},
		{"no unit or venue", func(r *CreateVisitRequest) { r.UnitID = nil }, "unitId"},
		{"missing guard", func(r *CreateVisitRequest) { r.GuardID = 0 }, "guardId"},
		{"photo is not a data url", func(r *CreateVisitRequest) { r.Photo = "https://x/y.jpg" }, "photo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.edit(&req)

			err := req.Validate()

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestNewVisit(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	req := CreateVisitRequest{
		VisitorName:  "  João Silva ",
		VisitTypeID:  1,
		UnitID:       int64Ptr(101),
		VehiclePlate: "abc-1234",
		GuardID:      7,
	}

	v := NewVisit(req, 9, "device-1", "ref-1", now)

	assert.True(t, v.ID.IsZero())
	assert.Equal(t, "João Silva", v.VisitorName)
	assert.Equal(t, "ABC-1234", v.VehiclePlate)
	assert.Equal(t, VisitPending, v.Status)
	assert.Equal(t, SyncStatusPending, v.SyncStatus)
	assert.Equal(t, ApprovalGuardOnly, v.ApprovalMode)
	assert.Equal(t, int64(9), v.CondoID)
	assert.Equal(t, now, v.CheckInAt)
}

func TestVisitApplyStatus(t *testing.T) {
	first := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	t.Run("stamps check-out on the first exit only", func(t *testing.T) {
		v := &Visit{Status: VisitInside}

		require.NoError(t, v.ApplyStatus(VisitLeft, first))
		require.NoError(t, v.ApplyStatus(VisitLeft, first.Add(time.Hour)))

		require.NotNil(t, v.CheckOutAt)
		assert.Equal(t, first, *v.CheckOutAt)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		v := &Visit{Status: VisitPending}
		assert.Error(t, v.ApplyStatus("GONE", first))
		assert.Equal(t, VisitPending, v.Status)
	})
}

func TestIncidentTransitions(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("acknowledge records who and when", func(t *testing.T) {
		inc := &Incident{Status: IncidentNew}

		require.NoError(t, inc.Acknowledge(7, now))

		assert.Equal(t, IncidentAcknowledged, inc.Status)
		require.NotNil(t, inc.AcknowledgedBy)
		assert.Equal(t, int64(7), *inc.AcknowledgedBy)
		assert.Equal(t, now, *inc.AcknowledgedAt)
	})

	t.Run("resolving stamps the resolution time once", func(t *testing.T) {
		inc := &Incident{Status: IncidentAcknowledged}

		require.NoError(t, inc.ReportAction("water shut off", IncidentResolved, now))
		require.NoError(t, inc.ReportAction("plumber confirmed", IncidentResolved, now.Add(time.Hour)))

		assert.Equal(t, "plumber confirmed", inc.GuardNotes)
		assert.Equal(t, now, *inc.ResolvedAt)
	})

	t.Run("action requires notes", func(t *testing.T) {
		inc := &Incident{}
		assert.Error(t, inc.ReportAction(" ", IncidentInProgress, now))
	})
}
