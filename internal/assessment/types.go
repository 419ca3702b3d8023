// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package assessment

import (
	"time"

	"github.com/tomtom215/surveyshield/internal/detection"
	"github.com/tomtom215/surveyshield/internal/fingerprint"
	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/history"
	"github.com/tomtom215/surveyshield/internal/timing"
)

// GridQuestion is one matrix question answered by the session.
type GridQuestion struct {
	QuestionID string          `json:"question_id" validate:"required"`
	Responses  []grid.Response `json:"responses"`
	Scale      *grid.Scale     `json:"scale,omitempty" validate:"-"`
}

// Population is the context other sessions provide.
type Population struct {
	// Sessions feed the fraud signals.
	Sessions []history.Record `json:"sessions,omitempty"`

	// Timing holds other sessions' question times keyed by session ID.
	Timing map[string][]timing.Response `json:"timing,omitempty"`
}

// Request is everything known about one session at assessment time.
type Request struct {
	Session    detection.Session            `json:"session"`
	Samples    []fingerprint.BehaviorSample `json:"samples,omitempty"`
	Answers    []detection.TextAnswer       `json:"answers,omitempty"`
	Grids      []GridQuestion               `json:"grids,omitempty"`
	Timing     []timing.Response            `json:"timing,omitempty"`
	Population Population                   `json:"population"`

	// Now anchors the fraud time windows; zero means the current time.
	Now time.Time `json:"now,omitempty"`
}

// Summary rolls the per-question results up to the session.
type Summary struct {
	GridQuestions        int     `json:"grid_questions"`
	StraightLinedGrids   int     `json:"straight_lined_grids"`
	MeanSatisficingScore float64 `json:"mean_satisficing_score"`

	TimedQuestions  int     `json:"timed_questions"`
	SpeederCount    int     `json:"speeder_count"`
	FlatlinerCount  int     `json:"flatliner_count"`
	AnomalyCount    int     `json:"anomaly_count"`
	SpeededFraction float64 `json:"speeded_fraction"`
}

// SessionReport is the complete assessment of one session.
type SessionReport struct {
	CorrelationID string                   `json:"correlation_id"`
	SessionID     string                   `json:"session_id"`
	AssessedAt    time.Time                `json:"assessed_at"`
	Fraud         detection.FraudIndicator `json:"fraud"`
	Grids         []grid.AnalysisResult    `json:"grids"`
	Timing        []timing.AnalysisResult  `json:"timing"`
	Summary       Summary                  `json:"summary"`
}
