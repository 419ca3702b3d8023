// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	// Default: true
	Timestamp bool

	// Service is attached to every line as the "service" field. Empty
	// omits it.
	Service string

	// Output is the writer for log output.
	// Default: os.Stderr, since stdout carries the CLI report
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Service:   "surveyshield",
		Output:    os.Stderr,
	}
}

// levels maps accepted level names to zerolog levels.
var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

//nolint:gochecknoinits // analyzers log before the CLI calls Init
func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. It may be called again to reconfigure.
func Init(cfg Config) {
	l := build(cfg)

	mu.Lock()
	defer mu.Unlock()
	log = l
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	c := zerolog.New(out).With()
	if cfg.Timestamp {
		c = c.Timestamp()
	}
	if cfg.Caller {
		c = c.Caller()
	}
	if cfg.Service != "" {
		c = c.Str("service", cfg.Service)
	}
	return c.Logger()
}

// parseLevel converts a level name to a zerolog level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether level is an accepted level name.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger instance, typically with one from
// NewTestLogger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// NewTestLogger creates a logger that writes bare JSON lines to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w)
}

func event(level zerolog.Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.WithLevel(level)
}

// Debug starts a new message with debug level.
func Debug() *zerolog.Event { return event(zerolog.DebugLevel) }

// Info starts a new message with info level.
//
//	logging.Info().Str("session_id", id).Msg("session assessed")
func Info() *zerolog.Event { return event(zerolog.InfoLevel) }

// Warn starts a new message with warning level.
func Warn() *zerolog.Event { return event(zerolog.WarnLevel) }

// Error starts a new message with error level.
//
//	logging.Error().Err(err).Msg("assessment failed")
func Error() *zerolog.Event { return event(zerolog.ErrorLevel) }
