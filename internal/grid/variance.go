// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"github.com/tomtom215/surveyshield/internal/scoring"
)

// VarianceScore measures the spread of a grid's answers in [0, 1].
//
// Answers are normalized to [0, 1] against scale when given, otherwise
// against the observed minimum and maximum. The score is twice the
// population standard deviation of the normalized answers, which is at most
// 1 for a variable bounded to the unit interval. Identical answers score 0
// and answers split between the two ends of the scale score 1.
func VarianceScore(responses []Response, scale *Scale) float64 {
	vs := values(scalePoints(responses))
	if len(vs) < 2 {
		return 0
	}

	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if scale != nil && scale.Max > scale.Min {
		lo, hi = scale.Min, scale.Max
	}
	if hi == lo {
		return 0
	}

	normalized := make([]float64, len(vs))
	for i, v := range vs {
		normalized[i] = scoring.Clamp01((v - lo) / (hi - lo))
	}

	return scoring.Clamp01(2 * scoring.PopulationStdDev(normalized))
}

// MeanResponseTimeMs returns the mean per-cell time over the responses that
// report one, and false when none do.
func MeanResponseTimeMs(responses []Response) (float64, bool) {
	times := make([]float64, 0, len(responses))
	for _, r := range responses {
		if r.ResponseTimeMs != nil && *r.ResponseTimeMs >= 0 {
			times = append(times, float64(*r.ResponseTimeMs))
		}
	}
	if len(times) == 0 {
		return 0, false
	}
	return scoring.Mean(times), true
}

// SpeedScore maps a mean per-cell time to [0, 1]: 1 for instant answers,
// falling linearly to 0 at the reference time.
func SpeedScore(meanMs float64, referenceMs int64) float64 {
	if referenceMs <= 0 {
		return 0
	}
	ref := float64(referenceMs)
	if meanMs > ref {
		meanMs = ref
	}
	if meanMs < 0 {
		meanMs = 0
	}
	return scoring.Clamp01(1 - meanMs/ref)
}

// SatisficingScore combines low variance and fast answering:
//
//	VarianceWeight*(1-variance) + SpeedWeight*speed
//
// When no timing is available (meanCellMs nil) the score rests on the
// variance term alone. The result never decreases as variance falls or
// answering speeds up.
func SatisficingScore(variance float64, meanCellMs *float64, cfg Config) float64 {
	flatness := 1 - scoring.Clamp01(variance)
	if meanCellMs == nil {
		return scoring.Clamp01(flatness)
	}

	speed := SpeedScore(*meanCellMs, cfg.SpeedReferenceMs)
	return scoring.Clamp01(cfg.VarianceWeight*flatness + cfg.SpeedWeight*speed)
}
