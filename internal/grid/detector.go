// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/surveyshield/internal/metrics"
	"github.com/tomtom215/surveyshield/internal/validation"
)

// Detector runs the full grid analysis with a reconfigurable configuration.
type Detector struct {
	config Config
	mu     sync.RWMutex
}

// NewDetector creates a grid detector. A zero Config selects the defaults.
func NewDetector(cfg Config) *Detector {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Detector{config: cfg}
}

// Analyze runs every grid measurement over one question's responses.
// Empty input yields a zero result with a nil pattern.
func (d *Detector) Analyze(sessionID, questionID string, responses []Response, scale *Scale) AnalysisResult {
	start := time.Now()
	cfg := d.Config()

	straight := DetectStraightLiningWithThreshold(responses, cfg.StraightLineThreshold)
	pattern := ClassifyPatternWithConfig(responses, cfg)
	variance := VarianceScore(responses, scale)

	var meanMs *float64
	if m, ok := MeanResponseTimeMs(responses); ok {
		meanMs = &m
	}

	result := AnalysisResult{
		SessionID:              sessionID,
		QuestionID:             questionID,
		IsStraightLined:        straight.IsStraightLined,
		StraightLinePercentage: straight.Percentage,
		PatternType:            pattern.Type,
		PatternConfidence:      pattern.Confidence,
		VarianceScore:          variance,
		ResponseCount:          len(responses),
	}
	if len(responses) > 0 {
		result.SatisficingScore = SatisficingScore(variance, meanMs, cfg)
	}

	patternLabel := ""
	if pattern.Type != nil {
		patternLabel = string(*pattern.Type)
	}
	metrics.RecordGridAnalysis(time.Since(start), patternLabel, result.IsStraightLined, result.SatisficingScore)

	return result
}

// Configure updates the detector configuration from JSON. Fields missing
// from the document keep their current values.
func (d *Detector) Configure(config json.RawMessage) error {
	newConfig := d.Config()
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if verr := validation.ValidateStruct(&newConfig); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}
	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	d.mu.Lock()
	d.config = newConfig
	d.mu.Unlock()

	return nil
}

// Config returns the current configuration.
func (d *Detector) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}
