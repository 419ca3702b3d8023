// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package logging provides centralized zerolog-based structured logging for
// SurveyShield.
//
// The package provides:
//   - JSON output for batch and pipeline use, console output for development
//   - A global logger configured once from the config package
//   - Context-aware logging with correlation and session ID propagation
//   - Redaction helpers for respondent IPs, identifiers and fingerprints
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("assessment starting")
//	logging.Error().Err(err).Msg("history lookup failed")
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	ctx = logging.ContextWithSessionID(ctx, session.SessionID)
//	logging.Ctx(ctx).Info().Float64("overall_fraud_score", score).Msg("fraud analysis complete")
//
// # Configuration
//
// Configured through the logging section of the application config, which
// maps these environment variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
