// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

/*
Package config provides layered configuration for SurveyShield.

Configuration is loaded with Koanf v2 from three layers, each overriding the
one before:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the -config flag, else CONFIG_PATH, else the
    first of DefaultConfigPaths that exists
 3. Environment variables: SECTION_FIELD sets section.field for any key
    the defaults define, plus the LOG_* and METRICS_TEXTFILE aliases

# Configuration Structure

  - LoggingConfig: level, format, caller
  - grid.Config: straight-lining threshold, pattern and satisficing tuning
  - timing.Config: speeder/flatliner thresholds, adaptive k, z-score
  - GeoConfig: "CIDR=CC" prefix table and resolution cache TTL
  - MetricsConfig: optional Prometheus textfile output

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

Grid detector:
  - GRID_STRAIGHT_LINE_THRESHOLD (default: 0.8)
  - GRID_MIN_PATTERN_RESPONSES (default: 3)
  - GRID_ZIGZAG_MIN_ALTERNATION (default: 0.8)
  - GRID_VARIANCE_WEIGHT, GRID_SPEED_WEIGHT (default: 0.5 each, must sum to 1)
  - GRID_SPEED_REFERENCE_MS (default: 3000)

Timing analyzer:
  - TIMING_SPEEDER_THRESHOLD_MS (default: 2000)
  - TIMING_FLATLINER_THRESHOLD_MS (default: 300000)
  - TIMING_ADAPTIVE_K (default: 1.5)
  - TIMING_Z_SCORE_THRESHOLD (default: 2.5)
  - TIMING_MIN_STD_DEV_MS (default: 100)
  - TIMING_MODE: fixed or adaptive (default: fixed)
  - TIMING_MIN_POPULATION (default: 5)

Geo:
  - GEO_PREFIXES: comma-separated "CIDR=CC" entries
  - GEO_CACHE_TTL: duration (default: 10m)

Metrics:
  - METRICS_TEXTFILE: path for the Prometheus text exposition

Environment variables that name no known key are ignored.

# Example

	# surveyshield.yaml
	logging:
	  level: debug
	timing:
	  mode: adaptive
	geo:
	  prefixes:
	    - "81.2.69.0/24=GB"
	    - "2001:db8::/32=DE"

	cfg, err := config.Load("")
	if err != nil {
	    return err
	}
	logging.Init(cfg.Logging.LoggerConfig())
*/
package config
