// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/surveyshield/internal/timing"
)

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},
		{"GRID_STRAIGHT_LINE_THRESHOLD", "grid.straight_line_threshold"},
		{"GRID_SPEED_WEIGHT", "grid.speed_weight"},
		{"TIMING_MODE", "timing.mode"},
		{"TIMING_ADAPTIVE_K", "timing.adaptive_k"},
		{"GEO_PREFIXES", "geo.prefixes"},
		{"GEO_CACHE_TTL", "geo.cache_ttl"},
		{"METRICS_TEXTFILE", "metrics.textfile_path"},
		{"TIMING_Z_SCORE_THRESHOLD", "timing.z_score_threshold"},
		{"LOGGING_LEVEL", "logging.level"},

		// Unmapped keys are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"GRID_UNKNOWN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// chdirTemp moves the test into an empty directory so no stray config file
// is picked up from the default search paths.
func chdirTemp(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
	return tmpDir
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("surveyshield.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "surveyshield.yaml")
		if err := os.WriteFile(configPath, []byte("logging:\n  level: info\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "surveyshield.yaml" {
			t.Errorf("findConfigFile() = %q, want surveyshield.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("logging:\n  level: info\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timing.Mode != timing.ThresholdFixed {
		t.Errorf("Timing.Mode = %q, want fixed", cfg.Timing.Mode)
	}
	if cfg.Grid.MinPatternResponses != 3 {
		t.Errorf("Grid.MinPatternResponses = %d, want 3", cfg.Grid.MinPatternResponses)
	}
}

func TestLoadEnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRID_STRAIGHT_LINE_THRESHOLD", "0.9")
	t.Setenv("TIMING_MODE", "adaptive")
	t.Setenv("TIMING_SPEEDER_THRESHOLD_MS", "1500")
	t.Setenv("GEO_PREFIXES", "81.2.69.0/24=GB, 2001:db8::/32=DE")
	t.Setenv("GEO_CACHE_TTL", "1m")
	t.Setenv("METRICS_TEXTFILE", "/tmp/surveyshield.prom")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Grid.StraightLineThreshold != 0.9 {
		t.Errorf("Grid.StraightLineThreshold = %v, want 0.9", cfg.Grid.StraightLineThreshold)
	}
	if cfg.Timing.Mode != timing.ThresholdAdaptive {
		t.Errorf("Timing.Mode = %q, want adaptive", cfg.Timing.Mode)
	}
	if cfg.Timing.SpeederThresholdMs != 1500 {
		t.Errorf("Timing.SpeederThresholdMs = %d, want 1500", cfg.Timing.SpeederThresholdMs)
	}
	if len(cfg.Geo.Prefixes) != 2 || cfg.Geo.Prefixes[1] != "2001:db8::/32=DE" {
		t.Errorf("Geo.Prefixes = %v, want two trimmed entries", cfg.Geo.Prefixes)
	}
	if cfg.Geo.CacheTTL != time.Minute {
		t.Errorf("Geo.CacheTTL = %v, want 1m", cfg.Geo.CacheTTL)
	}
	if cfg.Metrics.TextfilePath != "/tmp/surveyshield.prom" {
		t.Errorf("Metrics.TextfilePath = %q, want /tmp/surveyshield.prom", cfg.Metrics.TextfilePath)
	}

	// Defaults are still applied for unset values
	if cfg.Timing.FlatlinerThresholdMs != 300000 {
		t.Errorf("Timing.FlatlinerThresholdMs = %d, want 300000 (default)", cfg.Timing.FlatlinerThresholdMs)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	configContent := `
logging:
  level: warn
  format: console
grid:
  variance_weight: 0.6
  speed_weight: 0.4
timing:
  adaptive_k: 2
geo:
  prefixes:
    - "81.2.69.0/24=GB"
  cache_ttl: 30s
`
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want warn/console", cfg.Logging)
	}
	if cfg.Grid.VarianceWeight != 0.6 || cfg.Grid.SpeedWeight != 0.4 {
		t.Errorf("Grid weights = (%v, %v), want (0.6, 0.4)", cfg.Grid.VarianceWeight, cfg.Grid.SpeedWeight)
	}
	if cfg.Timing.AdaptiveK != 2 {
		t.Errorf("Timing.AdaptiveK = %v, want 2", cfg.Timing.AdaptiveK)
	}
	if len(cfg.Geo.Prefixes) != 1 || cfg.Geo.Prefixes[0] != "81.2.69.0/24=GB" {
		t.Errorf("Geo.Prefixes = %v, want [81.2.69.0/24=GB]", cfg.Geo.Prefixes)
	}
	if cfg.Geo.CacheTTL != 30*time.Second {
		t.Errorf("Geo.CacheTTL = %v, want 30s", cfg.Geo.CacheTTL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	configPath := filepath.Join(tmpDir, "surveyshield.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env beats file)", cfg.Logging.Level)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"weights not summing", map[string]string{"GRID_VARIANCE_WEIGHT": "0.9"}},
		{"bad timing mode", map[string]string{"TIMING_MODE": "sometimes"}},
		{"bad geo prefix", map[string]string{"GEO_PREFIXES": "not-a-prefix"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	if _, err := Load("/non/existent/surveyshield.yaml"); err == nil {
		t.Error("Load() error = nil, want error for missing explicit file")
	}
}
