// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package assessment runs every analyzer over one survey session and rolls
// the per-question results up into a SessionReport.
//
// Malformed grid responses, answers, samples and timing records are dropped
// and counted rather than failing the assessment; only an invalid session
// or a failing history is an error. Each assessment carries a correlation
// ID through its log lines.
package assessment
