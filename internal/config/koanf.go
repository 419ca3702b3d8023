// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/timing"
)

// ConfigPathEnvVar names a config file to use when Load is given no path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order after CONFIG_PATH.
var DefaultConfigPaths = []string{
	"surveyshield.yaml",
	"surveyshield.yml",
	"/etc/surveyshield/config.yaml",
	"/etc/surveyshield/config.yml",
}

// listPaths hold comma-separated lists when they come from the environment.
var listPaths = []string{"geo.prefixes"}

// envAliases are environment names that do not follow SECTION_FIELD.
var envAliases = map[string]string{
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"metrics_textfile": "metrics.textfile_path",
}

func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Grid:    grid.DefaultConfig(),
		Timing:  timing.DefaultConfig(),
		Geo:     GeoConfig{Prefixes: []string{}, CacheTTL: 10 * time.Minute},
	}
}

// Load builds the configuration from three layers, each overriding the one
// before it: built-in defaults, one YAML file, then environment variables.
//
// The file is path when given, and must then exist. Otherwise it is the first
// existing file among CONFIG_PATH and DefaultConfigPaths; having none is fine.
func Load(path string) (*Config, error) {
	configPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	layers := []struct {
		name     string
		provider koanf.Provider
		parser   koanf.Parser
	}{
		{"defaults", structs.Provider(defaultConfig(), "koanf"), nil},
		{"config file " + configPath, file.Provider(configPath), yaml.Parser()},
		{"environment", env.Provider("", ".", envTransformFunc), nil},
	}
	for _, l := range layers {
		if l.parser != nil && configPath == "" {
			continue
		}
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.name, err)
		}
	}

	if err := splitLists(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}
	return findConfigFile(), nil
}

// findConfigFile returns the first existing candidate file, or "".
func findConfigFile() string {
	candidates := append([]string{os.Getenv(ConfigPathEnvVar)}, DefaultConfigPaths...)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// splitLists turns "a, b,,c" strings at listPaths into trimmed slices. YAML
// lists are already slices and pass through.
func splitLists(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// knownPaths is every key the defaults define, e.g. "timing.adaptive_k".
var knownPaths = sync.OnceValue(func() map[string]bool {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		panic(fmt.Sprintf("config: flatten defaults: %v", err))
	}
	known := make(map[string]bool)
	for _, key := range k.Keys() {
		known[key] = true
	}
	return known
})

// envTransformFunc maps an environment variable to a config path, or "" to
// ignore it. SECTION_FIELD maps to section.field when that path exists, so
// TIMING_ADAPTIVE_K sets timing.adaptive_k while PATH and HOME are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if path, ok := envAliases[key]; ok {
		return path
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return ""
	}
	if path := section + "." + field; knownPaths()[path] {
		return path
	}
	return ""
}
