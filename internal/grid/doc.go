// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package grid analyzes the ordered responses to one grid (matrix) question
// for low-effort answering.
//
// Four measurements are taken over a session's responses to a question:
//
//   - Straight-lining: the share of rows given the most frequent answer.
//   - Click pattern: straight_line, diagonal, reverse_diagonal, zigzag or
//     random, from an ordered first-match rule list.
//   - Variance score: spread of the answers on a [0,1] scale.
//   - Satisficing score: low variance and fast answering combined with
//     configurable weights.
//
// Answers are placed on a numeric scale before scoring. When every answer is
// numeric its value is used. Otherwise, when every row reports its column,
// the column position is used for the whole question. Failing both, rows
// whose answer is not numeric are left out of the numeric measurements.
//
// The package-level functions are pure. Detector wraps them with a mutable
// configuration and records Prometheus metrics.
package grid
