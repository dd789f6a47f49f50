package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/hexfield/internal/overlay"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Overlay OverlayConfig `yaml:"overlay"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	StatusChannel   string `yaml:"status_channel"` // pub/sub channel for bulk status updates
}

// OverlayConfig holds the tuning constants of the overlay pipeline. Zero
// values select the overlay package defaults, so a minimal config file
// stays minimal.
type OverlayConfig struct {
	CellBudget      int             `yaml:"cell_budget"`
	LadderDepth     int             `yaml:"ladder_depth"`
	FloorResolution int             `yaml:"floor_resolution"`
	PoleClampLat    float64         `yaml:"pole_clamp_lat"`
	PaddingFraction float64         `yaml:"padding_fraction"`
	ResolutionTable []SpanThreshold `yaml:"resolution_table"`

	// Status idle eviction; 0 hours disables the sweeper.
	StatusIdleEvictionHrs int `yaml:"status_idle_eviction_hours"`
	EvictionIntervalMins  int `yaml:"eviction_interval_minutes"`
}

// SpanThreshold maps viewport spans up to MaxSpan degrees onto a target
// resolution.
type SpanThreshold struct {
	MaxSpan    float64 `yaml:"max_span"`
	Resolution int     `yaml:"resolution"`
}

// Core converts the YAML section into the overlay package's Config.
func (o OverlayConfig) Core() overlay.Config {
	var table []overlay.SpanThreshold
	for _, th := range o.ResolutionTable {
		table = append(table, overlay.SpanThreshold{MaxSpan: th.MaxSpan, Resolution: th.Resolution})
	}
	return overlay.Config{
		CellBudget:      o.CellBudget,
		LadderDepth:     o.LadderDepth,
		FloorResolution: o.FloorResolution,
		PoleClampLat:    o.PoleClampLat,
		PaddingFraction: o.PaddingFraction,
		Table:           table,
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "blacklist:"
	}
	if cfg.Redis.StatusChannel == "" {
		cfg.Redis.StatusChannel = "hexfield:status"
	}
	if cfg.Overlay.StatusIdleEvictionHrs == 0 {
		cfg.Overlay.StatusIdleEvictionHrs = 24
	}
	if cfg.Overlay.EvictionIntervalMins == 0 {
		cfg.Overlay.EvictionIntervalMins = 10
	}

	return &cfg, nil
}
