// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package assessment

import (
	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/scoring"
	"github.com/tomtom215/surveyshield/internal/timing"
)

// Summarize aggregates per-question grid and timing results. Grids with no
// responses do not count toward the mean satisficing score.
func Summarize(grids []grid.AnalysisResult, timed []timing.AnalysisResult) Summary {
	var s Summary

	s.GridQuestions = len(grids)
	satisficing := make([]float64, 0, len(grids))
	for _, g := range grids {
		if g.IsStraightLined {
			s.StraightLinedGrids++
		}
		if g.ResponseCount > 0 {
			satisficing = append(satisficing, g.SatisficingScore)
		}
	}
	s.MeanSatisficingScore = scoring.Mean(satisficing)

	s.TimedQuestions = len(timed)
	for _, r := range timed {
		if r.IsSpeeder {
			s.SpeederCount++
		}
		if r.IsFlatliner {
			s.FlatlinerCount++
		}
		if r.AnomalyType != nil {
			s.AnomalyCount++
		}
	}
	if s.TimedQuestions > 0 {
		s.SpeededFraction = float64(s.SpeederCount) / float64(s.TimedQuestions)
	}

	return s
}
