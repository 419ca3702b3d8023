// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package timing

import (
	"fmt"
)

// Response is the time a respondent spent on one question.
type Response struct {
	QuestionID     string `json:"question_id" validate:"required"`
	QuestionTimeMs int64  `json:"question_time_ms" validate:"gte=0"`
}

// AnomalyType classifies a statistical timing outlier.
type AnomalyType string

const (
	// AnomalySpeeder is a time far below the baseline.
	AnomalySpeeder AnomalyType = "speeder"

	// AnomalyFlatliner is a time far above the baseline that also exceeds
	// the flatliner threshold.
	AnomalyFlatliner AnomalyType = "flatliner"

	// AnomalyOutlier is a time far above the baseline but within the
	// flatliner threshold.
	AnomalyOutlier AnomalyType = "outlier"
)

// ThresholdSource records where a speeder/flatliner threshold came from.
type ThresholdSource string

const (
	// ThresholdFixed is the configured fixed threshold.
	ThresholdFixed ThresholdSource = "fixed"

	// ThresholdAdaptive is derived from the question's population timings.
	ThresholdAdaptive ThresholdSource = "adaptive"
)

// Flagged is a sample selected by speeder or flatliner detection.
type Flagged struct {
	Response
	IsSpeeder   bool `json:"is_speeder"`
	IsFlatliner bool `json:"is_flatliner"`
}

// Thresholds are speeder/flatliner cut-offs derived from a sample set.
type Thresholds struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	SpeederMs   float64 `json:"speeder_threshold_ms"`
	FlatlinerMs float64 `json:"flatliner_threshold_ms"`
	SampleCount int     `json:"sample_count"`
}

// Anomaly is one sample whose z-score exceeded the anomaly threshold.
type Anomaly struct {
	Response
	Index  int         `json:"index"`
	ZScore float64     `json:"z_score"`
	Type   AnomalyType `json:"anomaly_type"`
}

// ThresholdsUsed are the cut-offs a sample was judged against.
type ThresholdsUsed struct {
	SpeederMs   float64         `json:"speeder_ms"`
	FlatlinerMs float64         `json:"flatliner_ms"`
	Source      ThresholdSource `json:"source"`
}

// AnalysisResult is the timing analysis of one question in one session.
type AnalysisResult struct {
	SessionID      string         `json:"session_id"`
	QuestionID     string         `json:"question_id"`
	QuestionTimeMs int64          `json:"question_time_ms"`
	IsSpeeder      bool           `json:"is_speeder"`
	IsFlatliner    bool           `json:"is_flatliner"`
	ThresholdUsed  ThresholdsUsed `json:"threshold_used"`
	AnomalyScore   *float64       `json:"anomaly_score"`
	AnomalyType    *AnomalyType   `json:"anomaly_type"`
}

// Default thresholds.
const (
	DefaultSpeederThresholdMs   = 2000
	DefaultFlatlinerThresholdMs = 300000
	DefaultAdaptiveK            = 1.5
	DefaultZScoreThreshold      = 2.5
	DefaultMinStdDevMs          = 100
)

// Config configures the timing analyzer.
type Config struct {
	// SpeederThresholdMs flags answers faster than this in fixed mode.
	SpeederThresholdMs int64 `json:"speeder_threshold_ms" koanf:"speeder_threshold_ms" validate:"gte=0"`

	// FlatlinerThresholdMs flags answers slower than this in fixed mode.
	FlatlinerThresholdMs int64 `json:"flatliner_threshold_ms" koanf:"flatliner_threshold_ms" validate:"gtfield=SpeederThresholdMs"`

	// AdaptiveK is the std-dev multiplier for adaptive thresholds.
	AdaptiveK float64 `json:"adaptive_k" koanf:"adaptive_k" validate:"gt=0"`

	// ZScoreThreshold is the |z| above which a sample is anomalous.
	ZScoreThreshold float64 `json:"z_score_threshold" koanf:"z_score_threshold" validate:"gt=0"`

	// MinStdDevMs is the smallest baseline spread a z-score is taken
	// against. Millisecond jitter between near-identical times is not an
	// anomaly.
	MinStdDevMs float64 `json:"min_std_dev_ms" koanf:"min_std_dev_ms" validate:"gt=0"`

	// Mode selects fixed or adaptive speeder/flatliner thresholds.
	Mode ThresholdSource `json:"mode" koanf:"mode" validate:"oneof=fixed adaptive"`

	// MinPopulation is the fewest population timings a question needs
	// before adaptive thresholds or population baselines apply to it.
	MinPopulation int `json:"min_population" koanf:"min_population" validate:"gte=2"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpeederThresholdMs:   DefaultSpeederThresholdMs,
		FlatlinerThresholdMs: DefaultFlatlinerThresholdMs,
		AdaptiveK:            DefaultAdaptiveK,
		ZScoreThreshold:      DefaultZScoreThreshold,
		MinStdDevMs:          DefaultMinStdDevMs,
		Mode:                 ThresholdFixed,
		MinPopulation:        5,
	}
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c Config) Validate() error {
	if c.SpeederThresholdMs < 0 || c.FlatlinerThresholdMs < 0 {
		return fmt.Errorf("timing thresholds must be non-negative")
	}
	if c.SpeederThresholdMs >= c.FlatlinerThresholdMs {
		return fmt.Errorf("speeder_threshold_ms (%d) must be below flatliner_threshold_ms (%d)",
			c.SpeederThresholdMs, c.FlatlinerThresholdMs)
	}
	if c.AdaptiveK <= 0 {
		return fmt.Errorf("adaptive_k must be positive")
	}
	if c.ZScoreThreshold <= 0 {
		return fmt.Errorf("z_score_threshold must be positive")
	}
	if c.MinStdDevMs <= 0 {
		return fmt.Errorf("min_std_dev_ms must be positive")
	}
	switch c.Mode {
	case ThresholdFixed, ThresholdAdaptive:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ThresholdFixed, ThresholdAdaptive, c.Mode)
	}
	if c.MinPopulation < 2 {
		return fmt.Errorf("min_population must be at least 2")
	}
	return nil
}
