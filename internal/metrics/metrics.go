// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analyzer label values.
const (
	AnalyzerFraud  = "fraud"
	AnalyzerGrid   = "grid"
	AnalyzerTiming = "timing"
)

// Geo lookup outcomes.
const (
	GeoLookupResolved = "resolved"
	GeoLookupUnknown  = "unknown"
	GeoLookupError    = "error"
)

var (
	// Analysis Metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_analyses_total",
			Help: "Total number of analyses run, by analyzer",
		},
		[]string{"analyzer"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surveyshield_analysis_duration_seconds",
			Help:    "Duration of a single analysis in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"analyzer"},
	)

	RecordsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_records_rejected_total",
			Help: "Input records dropped at the validation boundary",
		},
		[]string{"record"},
	)

	// Fraud Metrics
	FraudSignalScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "surveyshield_fraud_signal_score",
			Help:    "Distribution of individual fraud signal scores",
			Buckets: []float64{0, .2, .4, .5, .6, .7, .8, .9, 1},
		},
		[]string{"signal"},
	)

	FraudOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "surveyshield_fraud_overall_score",
			Help:    "Distribution of weighted overall fraud scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	FraudRiskLevel = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_fraud_risk_level_total",
			Help: "Sessions assessed, by resulting risk level",
		},
		[]string{"risk_level"},
	)

	FraudDuplicatesFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surveyshield_fraud_duplicates_flagged_total",
			Help: "Sessions classified as duplicate or high risk",
		},
	)

	HistoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_history_errors_total",
			Help: "Failed population-context lookups, by signal",
		},
		[]string{"signal"},
	)

	GeoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_geo_lookups_total",
			Help: "IP to country resolutions, by outcome",
		},
		[]string{"result"},
	)

	// Grid Metrics
	GridPatterns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_grid_patterns_total",
			Help: "Grid questions classified, by click pattern",
		},
		[]string{"pattern"},
	)

	GridStraightLined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surveyshield_grid_straight_lined_total",
			Help: "Grid questions flagged as straight-lined",
		},
	)

	GridSatisficingScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "surveyshield_grid_satisficing_score",
			Help:    "Distribution of grid satisficing scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// Timing Metrics
	TimingFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surveyshield_timing_flags_total",
			Help: "Question timings flagged, by flag type",
		},
		[]string{"flag"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "surveyshield_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// Timing flag label values.
const (
	TimingFlagSpeeder   = "speeder"
	TimingFlagFlatliner = "flatliner"
	TimingFlagAnomaly   = "anomaly"
)

// RecordFraudAnalysis records the outcome of one fraud analysis.
func RecordFraudAnalysis(duration time.Duration, signalScores map[string]float64, overall float64, riskLevel string, isDuplicate bool) {
	AnalysesTotal.WithLabelValues(AnalyzerFraud).Inc()
	AnalysisDuration.WithLabelValues(AnalyzerFraud).Observe(duration.Seconds())
	for signal, score := range signalScores {
		FraudSignalScore.WithLabelValues(signal).Observe(score)
	}
	FraudOverallScore.Observe(overall)
	FraudRiskLevel.WithLabelValues(riskLevel).Inc()
	if isDuplicate {
		FraudDuplicatesFlagged.Inc()
	}
}

// RecordHistoryError records a failed population-context lookup.
func RecordHistoryError(signal string) {
	HistoryErrors.WithLabelValues(signal).Inc()
}

// RecordGeoLookup records one IP resolution outcome.
func RecordGeoLookup(result string) {
	GeoLookups.WithLabelValues(result).Inc()
}

// RecordGridAnalysis records one grid question analysis. An empty pattern
// means there were too few responses to classify.
func RecordGridAnalysis(duration time.Duration, pattern string, straightLined bool, satisficing float64) {
	AnalysesTotal.WithLabelValues(AnalyzerGrid).Inc()
	AnalysisDuration.WithLabelValues(AnalyzerGrid).Observe(duration.Seconds())
	if pattern == "" {
		pattern = "none"
	}
	GridPatterns.WithLabelValues(pattern).Inc()
	if straightLined {
		GridStraightLined.Inc()
	}
	GridSatisficingScore.Observe(satisficing)
}

// RecordTimingAnalysis records one session's timing analysis.
func RecordTimingAnalysis(duration time.Duration, speeders, flatliners, anomalies int) {
	AnalysesTotal.WithLabelValues(AnalyzerTiming).Inc()
	AnalysisDuration.WithLabelValues(AnalyzerTiming).Observe(duration.Seconds())
	TimingFlags.WithLabelValues(TimingFlagSpeeder).Add(float64(speeders))
	TimingFlags.WithLabelValues(TimingFlagFlatliner).Add(float64(flatliners))
	TimingFlags.WithLabelValues(TimingFlagAnomaly).Add(float64(anomalies))
}

// RecordRejected records n input records of the given kind dropped as malformed.
func RecordRejected(record string, n int) {
	if n <= 0 {
		return
	}
	RecordsRejected.WithLabelValues(record).Add(float64(n))
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
