package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `json:"serverAddress" yaml:"serverAddress"`
	DatabasePath  string   `json:"databasePath" yaml:"databasePath"`
	BackupPath    string   `json:"backupPath" yaml:"backupPath"`
	Timezone      string   `json:"timezone" yaml:"timezone"`
	Backend       Backend  `json:"backend" yaml:"backend"`
	Sync          Sync     `json:"sync" yaml:"sync"`
	Photo         Photo    `json:"photo" yaml:"photo"`
	Security      Security `json:"security" yaml:"security"`
	Device        Device   `json:"device" yaml:"device"`
}

// Backend is the condominium backend the gateway talks to
type Backend struct {
	BaseURL        string `json:"baseUrl" yaml:"baseUrl"`
	APIKey         string `json:"apiKey" yaml:"apiKey"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Sync holds the background timer intervals, in seconds
type Sync struct {
	ProbeIntervalSeconds     int `json:"probeIntervalSeconds" yaml:"probeIntervalSeconds"`
	HeartbeatIntervalSeconds int `json:"heartbeatIntervalSeconds" yaml:"heartbeatIntervalSeconds"`
	ReplayIntervalSeconds    int `json:"replayIntervalSeconds" yaml:"replayIntervalSeconds"`
}

// Photo controls how visitor photos are shrunk before upload
type Photo struct {
	MaxDimension int `json:"maxDimension" yaml:"maxDimension"`
	Quality      int `json:"quality" yaml:"quality"`
}

// Security configuration for the local UI API
type Security struct {
	APIKey       string `json:"apiKey" yaml:"apiKey"`
	APIKeyHeader string `json:"apiKeyHeader" yaml:"apiKeyHeader"`
}

// Device describes this front desk to the registry
type Device struct {
	Name string `json:"name" yaml:"name"`
}

// Timeout returns the backend call timeout
func (b Backend) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func (s Sync) ProbeInterval() time.Duration {
	return time.Duration(s.ProbeIntervalSeconds) * time.Second
}

func (s Sync) HeartbeatInterval() time.Duration {
	return time.Duration(s.HeartbeatIntervalSeconds) * time.Second
}

func (s Sync) ReplayInterval() time.Duration {
	return time.Duration(s.ReplayIntervalSeconds) * time.Second
}

// Location resolves the timezone that defines "today" for the visit log
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: "127.0.0.1:5080",
		DatabasePath:  "frontdesk.db",
		Timezone:      "Local",
		Backend: Backend{
			TimeoutSeconds: 10,
		},
		Sync: Sync{
			ProbeIntervalSeconds:     60,
			HeartbeatIntervalSeconds: 300,
			ReplayIntervalSeconds:    120,
		},
		Photo: Photo{
			MaxDimension: 1024,
			Quality:      80,
		},
		Security: Security{
			APIKeyHeader: "X-API-Key",
		},
	}
}

// Load reads defaults, then the file at CONFIG_PATH (JSON, or YAML by
// extension), then environment overrides
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := decode(configPath, data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)

	if cfg.BackupPath == "" {
		cfg.BackupPath = strings.TrimSuffix(cfg.DatabasePath, filepath.Ext(cfg.DatabasePath)) + ".device.json"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddress = ":" + port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if backup := os.Getenv("FRONTDESK_BACKUP_PATH"); backup != "" {
		cfg.BackupPath = backup
	}
	if tz := os.Getenv("FRONTDESK_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}
	if url := os.Getenv("BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if key := os.Getenv("BACKEND_API_KEY"); key != "" {
		cfg.Backend.APIKey = key
	}
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		cfg.Security.APIKey = apiKey
	}
	if name := os.Getenv("FRONTDESK_DEVICE_NAME"); name != "" {
		cfg.Device.Name = name
	}

	setInt(&cfg.Backend.TimeoutSeconds, "BACKEND_TIMEOUT_SECONDS")
	setInt(&cfg.Sync.ProbeIntervalSeconds, "FRONTDESK_PROBE_INTERVAL_SECONDS")
	setInt(&cfg.Sync.HeartbeatIntervalSeconds, "FRONTDESK_HEARTBEAT_INTERVAL_SECONDS")
	setInt(&cfg.Sync.ReplayIntervalSeconds, "FRONTDESK_REPLAY_INTERVAL_SECONDS")
	setInt(&cfg.Photo.MaxDimension, "FRONTDESK_PHOTO_MAX_DIMENSION")
	setInt(&cfg.Photo.Quality, "FRONTDESK_PHOTO_QUALITY")
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.baseUrl is required (BACKEND_URL)")
	}
	for name, v := range map[string]int{
		"backend.timeoutSeconds":        c.Backend.TimeoutSeconds,
		"sync.probeIntervalSeconds":     c.Sync.ProbeIntervalSeconds,
		"sync.heartbeatIntervalSeconds": c.Sync.HeartbeatIntervalSeconds,
		"sync.replayIntervalSeconds":    c.Sync.ReplayIntervalSeconds,
		"photo.maxDimension":            c.Photo.MaxDimension,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Photo.Quality < 1 || c.Photo.Quality > 100 {
		return fmt.Errorf("photo.quality must be between 1 and 100")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}
