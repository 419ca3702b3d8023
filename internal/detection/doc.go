// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package detection scores a survey session for fraud from five signals and
// combines them into a single FraudIndicator.
//
// Detection Architecture:
//
//	Session + Answers -> Engine -> 5 analyzers -> Aggregate -> FraudIndicator
//	                       |
//	                       v
//	                    History (population context)
//
// Signals and weights:
//   - IP reuse (0.25): sessions from the same address, in total and today
//   - Fingerprint reuse (0.25): other sessions sharing the device fingerprint
//   - Duplicate responses (0.20): near-identical free text across sessions
//   - Geolocation (0.15): distinct foreign countries among related sessions
//   - Velocity (0.15): submissions in the trailing hour
//
// The overall score is the weighted sum, clamped to [0, 1], and is bucketed
// into LOW (<0.4), MEDIUM (<0.7), HIGH (<0.9) and CRITICAL. A session whose
// overall score reaches 0.7 is flagged as a duplicate.
//
// The analyzers are pure functions over counts and strings. The Engine
// gathers their inputs from a History concurrently and is the only part of
// the package that blocks.
package detection
