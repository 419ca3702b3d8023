// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"math"

	"github.com/tomtom215/surveyshield/internal/scoring"
)

// sequence is a grid's numeric answers ordered by row.
type sequence struct {
	values    []float64
	positions []float64
}

// patternScorer names a pattern and how cleanly a sequence matches it.
type patternScorer struct {
	typ        PatternType
	confidence func(sequence) float64
}

// patternRules returns the classification rules in priority order.
func patternRules(minAlternation float64) []scoring.Rule[sequence, patternScorer] {
	return []scoring.Rule[sequence, patternScorer]{
		{
			Name:   string(PatternStraightLine),
			When:   func(s sequence) bool { return scoring.DistinctCount(s.values) == 1 },
			Result: patternScorer{typ: PatternStraightLine, confidence: func(sequence) float64 { return 1.0 }},
		},
		{
			Name:   string(PatternDiagonal),
			When:   func(s sequence) bool { return monotonic(s.positions, 1) && monotonic(s.values, 1) },
			Result: patternScorer{typ: PatternDiagonal, confidence: func(s sequence) float64 { return lockStep(s, 1) }},
		},
		{
			Name:   string(PatternReverseDiagonal),
			When:   func(s sequence) bool { return monotonic(s.positions, 1) && monotonic(s.values, -1) },
			Result: patternScorer{typ: PatternReverseDiagonal, confidence: func(s sequence) float64 { return lockStep(s, -1) }},
		},
		{
			Name: string(PatternZigzag),
			When: func(s sequence) bool {
				return scoring.DistinctCount(s.values) == 2 && alternation(s.values) >= minAlternation
			},
			Result: patternScorer{typ: PatternZigzag, confidence: func(s sequence) float64 { return alternation(s.values) }},
		},
	}
}

// randomPattern is the fallback when no rule matches. It carries no confidence.
var randomPattern = patternScorer{typ: PatternRandom, confidence: func(sequence) float64 { return 0 }}

// ClassifyPattern classifies the click pattern of a grid using the default
// configuration.
func ClassifyPattern(responses []Response) PatternResult {
	return ClassifyPatternWithConfig(responses, DefaultConfig())
}

// ClassifyPatternWithConfig classifies the click pattern of a grid. Rows are
// ordered by RowID before classification, and the diagonal patterns need
// every row on its own position. Fewer than cfg.MinPatternResponses
// scorable responses yields a nil pattern.
func ClassifyPatternWithConfig(responses []Response, cfg Config) PatternResult {
	points := byRow(scalePoints(responses))
	if len(points) < cfg.MinPatternResponses {
		return PatternResult{}
	}

	seq := sequence{
		values:    values(points),
		positions: make([]float64, len(points)),
	}
	for i, p := range points {
		seq.positions[i] = float64(p.row)
	}

	scorer := scoring.FirstMatch(patternRules(cfg.ZigzagMinAlternation), seq, randomPattern)
	typ := scorer.typ
	return PatternResult{
		Type:       &typ,
		Confidence: scoring.Clamp01(scorer.confidence(seq)),
	}
}

// monotonic reports whether every step moves strictly in direction dir.
func monotonic(vs []float64, dir float64) bool {
	if len(vs) < 2 {
		return false
	}
	for i := 1; i < len(vs); i++ {
		if (vs[i]-vs[i-1])*dir <= 0 {
			return false
		}
	}
	return true
}

// lockStep scores how closely each value step tracks the row step in
// direction dir: 1/(1 + mean |dir*Δvalue - Δposition|).
func lockStep(s sequence, dir float64) float64 {
	n := len(s.values)
	if n < 2 {
		return 0
	}
	var dev float64
	for i := 1; i < n; i++ {
		dv := (s.values[i] - s.values[i-1]) * dir
		dp := s.positions[i] - s.positions[i-1]
		dev += math.Abs(dv - dp)
	}
	return 1 / (1 + dev/float64(n-1))
}

// alternation is the share of consecutive steps that change value.
func alternation(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	switches := 0
	for i := 1; i < len(vs); i++ {
		if vs[i] != vs[i-1] {
			switches++
		}
	}
	return float64(switches) / float64(len(vs)-1)
}
