// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

/*
Package metrics provides Prometheus instrumentation for the scoring engine.

Every collector is registered with the default registry through promauto.
Components record through the RecordX helpers rather than touching the
collectors directly.

# Available Metrics

Analysis:
  - surveyshield_analyses_total{analyzer}: analyses run (fraud, grid, timing)
  - surveyshield_analysis_duration_seconds{analyzer}: per-analysis latency
  - surveyshield_records_rejected_total{record}: malformed input dropped

Fraud:
  - surveyshield_fraud_signal_score{signal}: per-signal score distribution
  - surveyshield_fraud_overall_score: weighted overall score distribution
  - surveyshield_fraud_risk_level_total{risk_level}: sessions per risk level
  - surveyshield_fraud_duplicates_flagged_total: duplicate classifications
  - surveyshield_history_errors_total{signal}: failed context lookups
  - surveyshield_geo_lookups_total{result}: IP resolution outcomes

Grid and timing:
  - surveyshield_grid_patterns_total{pattern}
  - surveyshield_grid_straight_lined_total
  - surveyshield_grid_satisficing_score
  - surveyshield_timing_flags_total{flag}

# Export

The batch CLI has no HTTP listener. WriteTextfile dumps the default
registry in text format for a node_exporter textfile collector.
*/
package metrics
