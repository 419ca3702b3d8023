// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

/*
Package timing flags implausible per-question response times.

A speeder answers faster than a question can be read; a flatliner leaves a
question open far longer than answering it takes. Both are judged against
either fixed thresholds or adaptive ones derived from the question's
population timings:

	speeder   = max(0, mean - k*stddev)
	flatliner = mean + k*stddev

Statistical outliers are flagged separately by z-score. Each sample is
compared against its question's population timings when enough are known,
otherwise against the session's other answers:

	anomalies, err := timing.DetectAnomalies(samples, timing.AnomalyOptions{})

Analyzer combines the three into one AnalysisResult per answered question:

	a := timing.NewAnalyzer(timing.DefaultConfig())
	results, err := a.AnalyzeSession(sessionID, samples, population)

All functions are pure and safe for concurrent use. Negative thresholds or
multipliers return an error wrapping scoring.ErrInvalidArgument.
*/
package timing
