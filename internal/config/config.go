// Package config loads fleetdash.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/metrics"
)

// FileName is the default configuration file
const FileName = "fleetdash.yaml"

// Config holds all fleetdash configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      logger.Config  `yaml:"log"`
	Metrics  metrics.Config `yaml:"metrics"`
	Reports  ReportsConfig  `yaml:"reports"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	WebDir       string        `yaml:"web_dir"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReportsConfig holds report console defaults
type ReportsConfig struct {
	PeriodDays      int    `yaml:"period_days"`
	PageSize        int    `yaml:"page_size"`
	PageSizeOptions []int  `yaml:"page_size_options"`
	SimulateLatency bool   `yaml:"simulate_latency"`
	ExportFormat    string `yaml:"export_format"`
	ExportDir       string `yaml:"export_dir"`
}

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads path, or fleetdash.yaml in the working directory when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FileName
	}
	return LoadFromPath(path)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks that config values are valid
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if cfg.Reports.PeriodDays < 1 {
		return fmt.Errorf("%w: period_days must be positive, got %d",
			ErrInvalidConfig, cfg.Reports.PeriodDays)
	}
	if cfg.Reports.PageSize < 1 {
		return fmt.Errorf("%w: page_size must be positive, got %d",
			ErrInvalidConfig, cfg.Reports.PageSize)
	}

	found := false
	for _, n := range cfg.Reports.PageSizeOptions {
		if n < 1 {
			return fmt.Errorf("%w: page_size_options must be positive, got %d", ErrInvalidConfig, n)
		}
		if n == cfg.Reports.PageSize {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: page_size %d is not one of page_size_options %v",
			ErrInvalidConfig, cfg.Reports.PageSize, cfg.Reports.PageSizeOptions)
	}

	switch cfg.Reports.ExportFormat {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("%w: export_format must be csv or xlsx, got %q",
			ErrInvalidConfig, cfg.Reports.ExportFormat)
	}

	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		return fmt.Errorf("%w: server timeouts cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Save writes cfg to path
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# fleetdash configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
