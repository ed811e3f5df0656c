package config

import (
	"time"

	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/metrics"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			WebDir:       "./web",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "fleet.db",
		},
		Log: logger.Config{
			Level: "info",
		},
		Metrics: metrics.Config{
			Interval:    15 * time.Second,
			ServiceName: "fleetdash",
		},
		Reports: ReportsConfig{
			PeriodDays:      7,
			PageSize:        10,
			PageSizeOptions: []int{10, 25, 50, 100},
			ExportFormat:    "csv",
			ExportDir:       ".",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Server = mergeServerConfig(loaded.Server, defaults.Server)
	result.Database.Path = pick(loaded.Database.Path, defaults.Database.Path)
	result.Log = mergeLogConfig(loaded.Log, defaults.Log)
	result.Metrics = mergeMetricsConfig(loaded.Metrics, defaults.Metrics)
	result.Reports = mergeReportsConfig(loaded.Reports, defaults.Reports)

	return result
}

func pick[T comparable](loaded, def T) T {
	var zero T
	if loaded != zero {
		return loaded
	}
	return def
}

func mergeServerConfig(loaded, defaults ServerConfig) ServerConfig {
	return ServerConfig{
		Addr:         pick(loaded.Addr, defaults.Addr),
		WebDir:       pick(loaded.WebDir, defaults.WebDir),
		ReadTimeout:  pick(loaded.ReadTimeout, defaults.ReadTimeout),
		WriteTimeout: pick(loaded.WriteTimeout, defaults.WriteTimeout),
		IdleTimeout:  pick(loaded.IdleTimeout, defaults.IdleTimeout),
	}
}

func mergeLogConfig(loaded, defaults logger.Config) logger.Config {
	result := loaded
	result.Level = pick(loaded.Level, defaults.Level)
	result.Output = pick(loaded.Output, defaults.Output)
	result.TimeFormat = pick(loaded.TimeFormat, defaults.TimeFormat)
	return result
}

func mergeMetricsConfig(loaded, defaults metrics.Config) metrics.Config {
	return metrics.Config{
		// Endpoint stays empty unless configured: the exporter is opt-in
		Endpoint:    loaded.Endpoint,
		Insecure:    loaded.Insecure,
		Interval:    pick(loaded.Interval, defaults.Interval),
		ServiceName: pick(loaded.ServiceName, defaults.ServiceName),
	}
}

func mergeReportsConfig(loaded, defaults ReportsConfig) ReportsConfig {
	result := ReportsConfig{
		PeriodDays:      pick(loaded.PeriodDays, defaults.PeriodDays),
		PageSize:        pick(loaded.PageSize, defaults.PageSize),
		SimulateLatency: loaded.SimulateLatency,
		ExportFormat:    pick(loaded.ExportFormat, defaults.ExportFormat),
		ExportDir:       pick(loaded.ExportDir, defaults.ExportDir),
	}

	// PageSizeOptions: use loaded if non-empty
	if len(loaded.PageSizeOptions) > 0 {
		result.PageSizeOptions = append([]int(nil), loaded.PageSizeOptions...)
	} else {
		result.PageSizeOptions = append([]int(nil), defaults.PageSizeOptions...)
	}
	return result
}
