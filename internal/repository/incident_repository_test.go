package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/models"
)

func testIncident(id int64, condoID int64, desc string, status models.SyncStatus) models.Incident {
	return models.Incident{
		ID:          models.RemoteID(id),
		CondoID:     condoID,
		Type:        "NOISE",
		Description: desc,
		Status:      models.IncidentNew,
		ReportedAt:  time.Date(2024, 3, 15, int(id), 0, 0, 0, time.UTC),
		SyncStatus:  status,
	}
}

func TestIncidentRepositoryReplaceSynced(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pending := testIncident(2, 9, "acknowledged offline", models.SyncStatusPending)
	require.NoError(t, store.Incidents.BulkPut(ctx, []models.Incident{
		testIncident(1, 9, "deleted on the server", models.SyncStatusSynced),
		pending,
		testIncident(3, 4, "other condominium", models.SyncStatusSynced),
	}))

	fresh := []models.Incident{
		testIncident(2, 9, "server copy of the pending one", models.SyncStatusSynced),
		testIncident(5, 9, "new report", models.SyncStatusSynced),
	}
	require.NoError(t, store.Incidents.ReplaceSynced(ctx, 9, fresh))

	got, err := store.Incidents.GetByCondo(ctx, 9)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[int64]models.Incident{}
	for _, i := range got {
		byID[i.ID.Key()] = i
	}
	assert.Equal(t, "acknowledged offline", byID[2].Description)
	assert.Equal(t, models.SyncStatusPending, byID[2].SyncStatus)
	assert.Equal(t, "new report", byID[5].Description)

	others, err := store.Incidents.GetByCondo(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestIncidentRepositoryNullableFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)

	inc := testIncident(8, 9, "leak", models.SyncStatusSynced)
	require.NoError(t, inc.Acknowledge(7, now))
	require.NoError(t, store.Incidents.Put(ctx, &inc))

	got, err := store.Incidents.GetByID(ctx, inc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), *got.AcknowledgedBy)
	assert.True(t, now.Equal(*got.AcknowledgedAt))
	assert.Nil(t, got.ResolvedAt)
	assert.Nil(t, got.UnitID)
}
