package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/condoguard/frontdesk/internal/models"
)

// ConfigBackup keeps a copy of the device configuration in a plain JSON file
// beside the database, so a wiped or corrupt store does not force the
// device back through provisioning.
type ConfigBackup struct {
	path string
}

// NewConfigBackup creates a backup stored at path
func NewConfigBackup(path string) *ConfigBackup {
	return &ConfigBackup{path: filepath.Clean(path)}
}

// Path returns the backup file location
func (b *ConfigBackup) Path() string {
	return b.path
}

// Load returns the saved configuration, or nil when there is none
func (b *ConfigBackup) Load() (*models.DeviceConfig, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config backup: %w", err)
	}

	var cfg models.DeviceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config backup: %w", err)
	}
	if cfg.CondoID <= 0 {
		return nil, nil
	}
	return &cfg, nil
}

// Save writes cfg atomically (temp file then rename)
func (b *ConfigBackup) Save(cfg *models.DeviceConfig) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config backup: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config backup: %w", err)
	}
	return nil
}

// Clear removes the backup. Missing files are not an error.
func (b *ConfigBackup) Clear() error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove config backup: %w", err)
	}
	return nil
}
