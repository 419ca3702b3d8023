// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package scoring holds the primitives shared by every detector: clamping to
// the unit interval, ordered first-match rule lists, population statistics
// and the invalid-argument error used for caller contract violations.
//
// Rule lists are evaluated top-down and the first matching rule wins. Keeping
// thresholds in a slice rather than in nested conditionals means the order of
// evaluation is data that tests can inspect directly.
package scoring
