// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package main is the SurveyShield batch command.
//
// It reads one assessment request as JSON, scores the session for fraud,
// grid satisficing and timing anomalies, and writes the session report as
// JSON to stdout.
//
// # Usage
//
//	surveyshield [-config path] [-metrics-file path] [request.json|-]
//
// With no argument, or "-", the request is read from stdin.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (LOG_LEVEL, GRID_*, TIMING_*, GEO_PREFIXES, ...)
//   - Config file (-config, CONFIG_PATH, or surveyshield.yaml)
//   - Built-in defaults
//
// # Example Usage
//
//	export GEO_PREFIXES="81.2.69.0/24=GB,2001:db8::/32=DE"
//	surveyshield -metrics-file /var/lib/node_exporter/surveyshield.prom request.json
//
// Logs go to stderr so stdout carries only the report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/surveyshield/internal/assessment"
	"github.com/tomtom215/surveyshield/internal/config"
	"github.com/tomtom215/surveyshield/internal/detection"
	"github.com/tomtom215/surveyshield/internal/geo"
	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/metrics"
	"github.com/tomtom215/surveyshield/internal/timing"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logging.Error().Err(err).Msg("Assessment failed")
		stop()
		os.Exit(1)
	}
}

// run executes one assessment. It is separate from main so tests can drive
// it with their own streams.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("surveyshield", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one request file, got %d", fs.NArg())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(cfg.Logging.LoggerConfig())
	metrics.SetAppInfo(version)

	if *metricsFile != "" {
		cfg.Metrics.TextfilePath = *metricsFile
	}

	req, err := readRequest(stdin, fs.Arg(0))
	if err != nil {
		return err
	}

	table, err := geo.NewPrefixTable(cfg.Geo.Prefixes)
	if err != nil {
		return fmt.Errorf("invalid geo prefixes: %w", err)
	}
	resolver := geo.NewCachedResolverTTL(table, cfg.Geo.CacheTTL)

	logging.Debug().
		Str("version", version).
		Int("geo_prefixes", table.Len()).
		Int("population_sessions", len(req.Population.Sessions)).
		Str("timing_mode", string(cfg.Timing.Mode)).
		Msg("Configuration loaded")

	store, err := assessment.NewStore(ctx, resolver, req)
	if err != nil {
		return fmt.Errorf("failed to load population: %w", err)
	}
	engine, err := detection.NewEngine(store, resolver)
	if err != nil {
		return err
	}
	assessor := assessment.NewAssessor(engine, grid.NewDetector(cfg.Grid), timing.NewAnalyzer(cfg.Timing))

	report, err := assessor.Assess(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	stats := resolver.Stats()
	logging.Debug().
		Int64("geo_cache_hits", stats.Hits).
		Int64("geo_cache_misses", stats.Misses).
		Float64("geo_cache_hit_rate", stats.HitRate()).
		Msg("Geo cache usage")

	if cfg.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return err
		}
	}
	return nil
}

// readRequest decodes the request from path, or from stdin for "" and "-".
func readRequest(stdin io.Reader, path string) (assessment.Request, error) {
	var req assessment.Request

	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}
