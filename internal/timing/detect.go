// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package timing

import (
	"math"

	"github.com/tomtom215/surveyshield/internal/scoring"
)

// requireThreshold rejects negative or non-finite thresholds.
func requireThreshold(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return scoring.InvalidArgumentf("%s must be a non-negative number, got %v", name, v)
	}
	return nil
}

// DetectSpeeders returns the samples answered in under thresholdMs, in
// input order.
func DetectSpeeders(samples []Response, thresholdMs float64) ([]Flagged, error) {
	if err := requireThreshold("speeder threshold", thresholdMs); err != nil {
		return nil, err
	}
	var flagged []Flagged
	for _, s := range samples {
		if float64(s.QuestionTimeMs) < thresholdMs {
			flagged = append(flagged, Flagged{Response: s, IsSpeeder: true})
		}
	}
	return flagged, nil
}

// DetectFlatliners returns the samples that took longer than thresholdMs,
// in input order.
func DetectFlatliners(samples []Response, thresholdMs float64) ([]Flagged, error) {
	if err := requireThreshold("flatliner threshold", thresholdMs); err != nil {
		return nil, err
	}
	var flagged []Flagged
	for _, s := range samples {
		if float64(s.QuestionTimeMs) > thresholdMs {
			flagged = append(flagged, Flagged{Response: s, IsFlatliner: true})
		}
	}
	return flagged, nil
}

// ComputeAdaptiveThresholds derives speeder and flatliner thresholds k
// population standard deviations either side of the sample mean. The
// speeder threshold never goes below zero. Empty input yields zero
// thresholds with SampleCount 0.
func ComputeAdaptiveThresholds(samples []Response, k float64) (Thresholds, error) {
	return adaptiveThresholds(times(samples), k)
}

func adaptiveThresholds(xs []float64, k float64) (Thresholds, error) {
	if err := requireThreshold("k", k); err != nil {
		return Thresholds{}, err
	}
	if len(xs) == 0 {
		return Thresholds{}, nil
	}

	mean := scoring.Mean(xs)
	sd := scoring.PopulationStdDev(xs)
	return Thresholds{
		Mean:        mean,
		StdDev:      sd,
		SpeederMs:   math.Max(0, mean-k*sd),
		FlatlinerMs: mean + k*sd,
		SampleCount: len(xs),
	}, nil
}

// PopulationThresholds computes adaptive thresholds per question across
// a survey population. population maps session IDs to that session's
// timings; the result is keyed by question ID.
func PopulationThresholds(population map[string][]Response, k float64) (map[string]Thresholds, error) {
	if err := requireThreshold("k", k); err != nil {
		return nil, err
	}

	out := make(map[string]Thresholds)
	for qid, xs := range groupByQuestion(population, "") {
		th, err := adaptiveThresholds(xs, k)
		if err != nil {
			return nil, err
		}
		out[qid] = th
	}
	return out, nil
}

// groupByQuestion collects population timings per question, skipping the
// session named by exclude.
func groupByQuestion(population map[string][]Response, exclude string) map[string][]float64 {
	grouped := make(map[string][]float64)
	for sessionID, samples := range population {
		if exclude != "" && sessionID == exclude {
			continue
		}
		for _, s := range samples {
			if s.QuestionID == "" || s.QuestionTimeMs < 0 {
				continue
			}
			grouped[s.QuestionID] = append(grouped[s.QuestionID], float64(s.QuestionTimeMs))
		}
	}
	return grouped
}

func times(samples []Response) []float64 {
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.QuestionTimeMs)
	}
	return xs
}
