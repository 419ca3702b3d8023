// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/timing"
	"github.com/tomtom215/surveyshield/internal/validation"
)

// Config holds all SurveyShield configuration.
type Config struct {
	Logging LoggingConfig `koanf:"logging"`
	Grid    grid.Config   `koanf:"grid"`
	Timing  timing.Config `koanf:"timing"`
	Geo     GeoConfig     `koanf:"geo"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// GeoConfig configures IP to country resolution for the geolocation signal.
type GeoConfig struct {
	// Prefixes maps networks to ISO 3166-1 alpha-2 country codes, one
	// "CIDR=CC" entry each. The longest matching prefix wins.
	Prefixes []string `koanf:"prefixes" validate:"dive,cidr_country"`

	// CacheTTL is how long a resolved country is remembered per IP.
	// Default: 10m
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// TextfilePath, when set, receives the Prometheus text exposition after
	// each run for a node_exporter textfile collector.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggerConfig converts the logging section for logging.Init. Output goes
// to stderr so stdout stays free for reports.
func (c LoggingConfig) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	if c.Format != "" {
		cfg.Format = c.Format
	}
	cfg.Caller = c.Caller
	cfg.Output = os.Stderr
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := c.Timing.Validate(); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}
