// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package timing

import (
	"math"

	"github.com/tomtom215/surveyshield/internal/scoring"
)

// AnomalyOptions tunes DetectAnomalies. Zero values select the defaults.
type AnomalyOptions struct {
	// ZThreshold is the |z| a sample must exceed to be flagged.
	ZThreshold float64

	// FlatlinerThresholdMs separates flatliner anomalies from plain
	// outliers among slow samples.
	FlatlinerThresholdMs float64

	// MinStdDevMs floors the baseline standard deviation.
	MinStdDevMs float64

	// Baselines holds population timings per question ID. A sample whose
	// question has at least MinBaseline timings is scored against them;
	// any other sample is scored against the session's remaining samples.
	Baselines map[string][]float64

	// MinBaseline is the fewest population timings a baseline needs.
	MinBaseline int
}

func (o AnomalyOptions) withDefaults() (AnomalyOptions, error) {
	if o.ZThreshold == 0 {
		o.ZThreshold = DefaultZScoreThreshold
	}
	if o.FlatlinerThresholdMs == 0 {
		o.FlatlinerThresholdMs = DefaultFlatlinerThresholdMs
	}
	if o.MinStdDevMs == 0 {
		o.MinStdDevMs = DefaultMinStdDevMs
	}
	if o.MinBaseline < 2 {
		o.MinBaseline = 2
	}
	for name, v := range map[string]float64{
		"z threshold":         o.ZThreshold,
		"flatliner threshold": o.FlatlinerThresholdMs,
		"min std dev":         o.MinStdDevMs,
	} {
		if err := requireThreshold(name, v); err != nil {
			return o, err
		}
	}
	return o, nil
}

// DetectAnomalies flags samples whose z-score against their baseline
// exceeds the threshold, in input order.
//
// A sample's baseline is its question's population timings when
// opts.Baselines holds enough of them, otherwise the session's other
// samples, never including the sample itself. A baseline with zero spread
// still flags a sample that differs from it, scored against MinStdDevMs.
// A session with fewer than two distinct times and no population baselines
// produces no anomalies.
func DetectAnomalies(samples []Response, opts AnomalyOptions) ([]Anomaly, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	xs := times(samples)
	if len(opts.Baselines) == 0 && scoring.DistinctCount(xs) < 2 {
		return nil, nil
	}

	var anomalies []Anomaly
	for i, s := range samples {
		z, ok := zScore(xs, i, opts.Baselines[s.QuestionID], opts)
		if !ok || math.Abs(z) <= opts.ZThreshold {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Response: s,
			Index:    i,
			ZScore:   z,
			Type:     classifyAnomaly(z, xs[i], opts.FlatlinerThresholdMs),
		})
	}
	return anomalies, nil
}

// zScore scores xs[i] against population when it is large enough, else
// against the other session samples. The baseline spread is floored at
// MinStdDevMs. ok is false when the baseline is too small, or has no spread
// and xs[i] sits on it.
func zScore(xs []float64, i int, population []float64, opts AnomalyOptions) (float64, bool) {
	baseline := population
	if len(baseline) < opts.MinBaseline {
		baseline = leaveOneOut(xs, i)
	}
	if len(baseline) < 2 {
		return 0, false
	}

	mean := scoring.Mean(baseline)
	sd := scoring.PopulationStdDev(baseline)
	if sd == 0 && xs[i] == mean {
		return 0, false
	}
	sd = math.Max(sd, opts.MinStdDevMs)
	return (xs[i] - mean) / sd, true
}

func leaveOneOut(xs []float64, i int) []float64 {
	out := make([]float64, 0, len(xs)-1)
	out = append(out, xs[:i]...)
	return append(out, xs[i+1:]...)
}

// classifyAnomaly names a flagged z-score. Slow outliers only count as
// flatliners once they also pass the flatliner threshold.
func classifyAnomaly(z, x, flatlinerMs float64) AnomalyType {
	switch {
	case z < 0:
		return AnomalySpeeder
	case x > flatlinerMs:
		return AnomalyFlatliner
	default:
		return AnomalyOutlier
	}
}
