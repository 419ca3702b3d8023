// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package timing

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/metrics"
	"github.com/tomtom215/surveyshield/internal/validation"
)

// Analyzer runs per-question timing analysis for whole sessions.
type Analyzer struct {
	config Config
	mu     sync.RWMutex
}

// NewAnalyzer creates a timing analyzer. A zero Config selects the defaults.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Analyzer{config: cfg}
}

// AnalyzeSession judges every sample of one session and returns one result
// per sample, in input order.
//
// population maps other sessions' IDs to their timings; entries for
// sessionID itself are ignored. Questions with at least MinPopulation
// population timings are scored against them: adaptive thresholds in
// adaptive mode, and population z-score baselines in either mode.
func (a *Analyzer) AnalyzeSession(sessionID string, samples []Response, population map[string][]Response) ([]AnalysisResult, error) {
	start := time.Now()
	cfg := a.Config()

	for _, s := range samples {
		if s.QuestionTimeMs < 0 {
			return nil, fmt.Errorf("question %s: %w", s.QuestionID,
				requireThreshold("question time", float64(s.QuestionTimeMs)))
		}
	}

	baselines := make(map[string][]float64)
	for qid, xs := range groupByQuestion(population, sessionID) {
		if len(xs) >= cfg.MinPopulation {
			baselines[qid] = xs
		}
	}

	anomalies, err := DetectAnomalies(samples, AnomalyOptions{
		ZThreshold:           cfg.ZScoreThreshold,
		FlatlinerThresholdMs: float64(cfg.FlatlinerThresholdMs),
		MinStdDevMs:          cfg.MinStdDevMs,
		Baselines:            baselines,
		MinBaseline:          cfg.MinPopulation,
	})
	if err != nil {
		return nil, err
	}
	byIndex := make(map[int]Anomaly, len(anomalies))
	for _, an := range anomalies {
		byIndex[an.Index] = an
	}

	thresholds := make(map[string]ThresholdsUsed, len(baselines))
	results := make([]AnalysisResult, len(samples))
	speeders, flatliners := 0, 0

	for i, s := range samples {
		used, ok := thresholds[s.QuestionID]
		if !ok {
			used, err = thresholdsFor(cfg, baselines[s.QuestionID])
			if err != nil {
				return nil, err
			}
			thresholds[s.QuestionID] = used
		}

		t := float64(s.QuestionTimeMs)
		r := AnalysisResult{
			SessionID:      sessionID,
			QuestionID:     s.QuestionID,
			QuestionTimeMs: s.QuestionTimeMs,
			IsSpeeder:      t < used.SpeederMs,
			IsFlatliner:    t > used.FlatlinerMs,
			ThresholdUsed:  used,
		}
		if an, ok := byIndex[i]; ok {
			z := an.ZScore
			typ := classifyAnomaly(z, t, used.FlatlinerMs)
			r.AnomalyScore = &z
			r.AnomalyType = &typ
		}
		if r.IsSpeeder {
			speeders++
		}
		if r.IsFlatliner {
			flatliners++
		}
		results[i] = r
	}

	metrics.RecordTimingAnalysis(time.Since(start), speeders, flatliners, len(anomalies))
	logging.Debug().
		Str("session_id", sessionID).
		Int("samples", len(samples)).
		Int("speeders", speeders).
		Int("flatliners", flatliners).
		Int("anomalies", len(anomalies)).
		Int("population_questions", len(baselines)).
		Msg("timing analysis complete")

	return results, nil
}

// thresholdsFor picks the speeder/flatliner cut-offs for one question.
func thresholdsFor(cfg Config, population []float64) (ThresholdsUsed, error) {
	fixed := ThresholdsUsed{
		SpeederMs:   float64(cfg.SpeederThresholdMs),
		FlatlinerMs: float64(cfg.FlatlinerThresholdMs),
		Source:      ThresholdFixed,
	}
	if cfg.Mode != ThresholdAdaptive || len(population) < cfg.MinPopulation {
		return fixed, nil
	}

	th, err := adaptiveThresholds(population, cfg.AdaptiveK)
	if err != nil {
		return ThresholdsUsed{}, err
	}
	if th.StdDev == 0 {
		return fixed, nil
	}
	return ThresholdsUsed{
		SpeederMs:   th.SpeederMs,
		FlatlinerMs: th.FlatlinerMs,
		Source:      ThresholdAdaptive,
	}, nil
}

// Configure updates the analyzer configuration from JSON. Fields missing
// from the document keep their current values.
func (a *Analyzer) Configure(config json.RawMessage) error {
	newConfig := a.Config()
	if err := json.Unmarshal(config, &newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if verr := validation.ValidateStruct(&newConfig); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}
	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.mu.Lock()
	a.config = newConfig
	a.mu.Unlock()

	return nil
}

// Config returns the current configuration.
func (a *Analyzer) Config() Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}
