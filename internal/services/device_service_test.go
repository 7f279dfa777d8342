package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/repository"
)

func TestDeviceIdentifier(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id, err := env.devices.Identifier(ctx)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	again, err := env.devices.Identifier(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	stored, err := env.store.Settings.Get(ctx, repository.SettingDeviceIdentifier)
	require.NoError(t, err)
	assert.Equal(t, id, stored)
}

func TestConfigureDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and persists in both places", func(t *testing.T) {
		env := newTestEnv(t)

		cfg, err := env.devices.Configure(ctx, testCondoID)
		require.NoError(t, err)
		assert.Equal(t, testCondoID, cfg.CondoID)
		assert.Equal(t, "Residencial Jardins", cfg.Condominium.Name)
		assert.Equal(t, models.DeviceConfiguredVerified, env.devices.State())

		require.Len(t, env.gw.registered, 1)
		rec := env.gw.registered[0]
		assert.Equal(t, cfg.DeviceIdentifier, rec.Identifier)
		assert.Equal(t, models.DeviceActive, rec.Status)
		assert.NotEmpty(t, rec.Metadata.Platform)

		backup, err := env.backup.Load()
		require.NoError(t, err)
		require.NotNil(t, backup)
		assert.Equal(t, testCondoID, backup.CondoID)
	})

	t.Run("needs the backend", func(t *testing.T) {
		env := newTestEnv(t)
		env.goOffline()
		_, err := env.devices.Configure(ctx, testCondoID)
		assert.ErrorIs(t, err, models.ErrBackendUnavailable)
		assert.Equal(t, models.DeviceUnconfigured, env.devices.State())
	})

	t.Run("unknown condominium", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.devices.Configure(ctx, 404)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("rebinding requires a reset", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		_, err := env.devices.Configure(ctx, 8)
		var ve models.ValidationError
		assert.True(t, errors.As(err, &ve))
	})
}

func TestIsDeviceConfigured(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing anywhere", func(t *testing.T) {
		env := newTestEnv(t)
		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, models.DeviceUnconfigured, env.devices.State())
	})

	t.Run("verified against the registry", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.DeviceConfiguredVerified, env.devices.State())
	})

	t.Run("offline trusts the local config", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		env.goOffline()

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.DeviceConfiguredLocalOnly, env.devices.State())
	})

	t.Run("registry lag is not fatal", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		env.gw.devices = map[string]*models.DeviceRecord{}

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.DeviceConfiguredLocalOnly, env.devices.State())
	})

	t.Run("deactivated remotely blocks the device", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		id, _ := env.devices.Identifier(ctx)
		env.gw.devices[id].Status = models.DeviceDecommissioned

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, models.DeviceBlocked, env.devices.State())

		_, err = env.sync.GetTodaysVisits(ctx)
		assert.ErrorIs(t, err, models.ErrDeviceBlocked)

		// the block survives going offline
		env.goOffline()
		ok, err = env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, models.DeviceBlocked, env.devices.State())

		// and is lifted when the registry reactivates the device
		env.goOnline()
		env.gw.devices[id].Status = models.DeviceActive
		ok, err = env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("registry reassignment wins", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		id, _ := env.devices.Identifier(ctx)
		env.gw.devices[id].CondoID = int64Ptr(8)

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		condoID, err := env.devices.CondoID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(8), condoID)

		backup, err := env.backup.Load()
		require.NoError(t, err)
		assert.Equal(t, int64(8), backup.CondoID)
	})

	t.Run("restored from the backup", func(t *testing.T) {
		env := newTestEnv(t)
		env.configure(t)
		require.NoError(t, env.store.Settings.Delete(ctx, repository.SettingDeviceConfig))
		env.goOffline()

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		var cfg models.DeviceConfig
		found, err := env.store.Settings.GetJSON(ctx, repository.SettingDeviceConfig, &cfg)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testCondoID, cfg.CondoID)
	})

	t.Run("adopted from the registry", func(t *testing.T) {
		env := newTestEnv(t)
		id, err := env.devices.Identifier(ctx)
		require.NoError(t, err)
		env.gw.devices[id] = &models.DeviceRecord{Identifier: id, CondoID: int64Ptr(testCondoID), Status: models.DeviceActive}

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.DeviceConfiguredVerified, env.devices.State())

		backup, err := env.backup.Load()
		require.NoError(t, err)
		require.NotNil(t, backup)
		assert.Equal(t, testCondoID, backup.CondoID)
	})

	t.Run("inactive registry entry with nothing local", func(t *testing.T) {
		env := newTestEnv(t)
		id, err := env.devices.Identifier(ctx)
		require.NoError(t, err)
		env.gw.devices[id] = &models.DeviceRecord{Identifier: id, CondoID: int64Ptr(testCondoID), Status: models.DeviceInactive}

		ok, err := env.devices.IsConfigured(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, models.DeviceBlocked, env.devices.State())
	})
}

func TestCondoDetails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.devices.CondoDetails(ctx)
	assert.ErrorIs(t, err, models.ErrDeviceNotConfigured)

	env.configure(t)
	env.gw.condos[testCondoID] = models.Condominium{ID: testCondoID, Name: "Residencial Jardins II"}

	condo, err := env.devices.CondoDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Residencial Jardins II", condo.Name)

	env.goOffline()
	condo, err = env.devices.CondoDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Residencial Jardins II", condo.Name, "refreshed copy was cached")
}

func TestResetDevice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.configure(t)
	id, _ := env.devices.Identifier(ctx)

	env.goOffline()
	_, err := env.sync.CreateVisit(ctx, visitRequest("Maria Souza", 101))
	require.NoError(t, err)

	require.NoError(t, env.devices.Reset(ctx))
	assert.Equal(t, models.DeviceUnconfigured, env.devices.State())

	ok, err := env.devices.IsConfigured(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	visits, err := env.store.Visits.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, visits)

	_, err = os.Stat(env.backup.Path())
	assert.True(t, os.IsNotExist(err))

	again, err := env.devices.Identifier(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestDeviceHeartbeat(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.devices.Heartbeat(ctx))
	_, _, beats := env.gw.counts()
	assert.Zero(t, beats)

	env.configure(t)
	require.NoError(t, env.devices.Heartbeat(ctx))
	_, _, beats = env.gw.counts()
	assert.Equal(t, 1, beats)
}
