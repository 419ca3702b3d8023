// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// captureLogs points the global logger at a buffer for one test.
func captureLogs(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := Logger(), zerolog.GlobalLevel()
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(level)
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" || cfg.Format != "json" {
		t.Errorf("DefaultConfig() level/format = %s/%s, want info/json", cfg.Level, cfg.Format)
	}
	if !cfg.Timestamp || cfg.Caller {
		t.Errorf("DefaultConfig() timestamp/caller = %v/%v, want true/false", cfg.Timestamp, cfg.Caller)
	}
	if cfg.Service != "surveyshield" {
		t.Errorf("DefaultConfig().Service = %q, want surveyshield", cfg.Service)
	}
}

func TestInit(t *testing.T) {
	prevLogger, prevLevel := Logger(), zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Service: "surveyshield", Output: &buf})

	Info().Msg("suppressed")
	Warn().Msg("grid config rejected")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("info line written at warn level: %s", output)
	}
	for _, want := range []string{`"level":"warn"`, `"service":"surveyshield"`, "grid config rejected"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestInitConsoleFormat(t *testing.T) {
	prevLogger, prevLevel := Logger(), zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console line")

	output := buf.String()
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("console format wrote JSON: %s", output)
	}
	if !strings.Contains(output, "console line") {
		t.Errorf("output missing message: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "Debug"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "verbose", "fatal"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestLevelHelpers(t *testing.T) {
	buf := captureLogs(t, zerolog.DebugLevel)

	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"Debug", func() { Debug().Msg("d") }, "debug"},
		{"Info", func() { Info().Msg("i") }, "info"},
		{"Warn", func() { Warn().Msg("w") }, "warn"},
		{"Error", func() { Error().Msg("e") }, "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log()
		if want := `"level":"` + tt.level + `"`; !strings.Contains(buf.String(), want) {
			t.Errorf("%s() output = %s, want %s", tt.name, buf.String(), want)
		}
	}
}
