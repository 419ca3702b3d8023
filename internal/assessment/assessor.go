// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/surveyshield/internal/detection"
	"github.com/tomtom215/surveyshield/internal/geo"
	"github.com/tomtom215/surveyshield/internal/grid"
	"github.com/tomtom215/surveyshield/internal/history"
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/scoring"
	"github.com/tomtom215/surveyshield/internal/timing"
	"github.com/tomtom215/surveyshield/internal/validation"
)

// Assessor runs the fraud engine, grid detector and timing analyzer over one
// session.
type Assessor struct {
	engine *detection.Engine
	grid   *grid.Detector
	timing *timing.Analyzer
	now    func() time.Time
}

// NewAssessor creates an assessor from its three analyzers.
func NewAssessor(engine *detection.Engine, g *grid.Detector, t *timing.Analyzer) *Assessor {
	return &Assessor{
		engine: engine,
		grid:   g,
		timing: t,
		now:    time.Now,
	}
}

// Assess validates the request, drops malformed records, and runs every
// analyzer. Only a bad session or a failing history makes it return an
// error.
func (a *Assessor) Assess(ctx context.Context, req Request) (SessionReport, error) {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	if verr := validation.ValidateStruct(&req.Session); verr != nil {
		return SessionReport{}, fmt.Errorf("%w: session: %v", scoring.ErrInvalidArgument, verr)
	}
	s := req.Session
	ctx = logging.ContextWithSessionID(ctx, s.SessionID)

	now := req.Now
	if now.IsZero() {
		now = a.now()
	}

	samples := validation.Filter("behavior_sample", req.Samples)
	answers := validation.Filter("text_answer", req.Answers)
	grids := validation.Filter("grid_question", req.Grids)
	timed := validation.Filter("timing_response", req.Timing)

	fraud, err := a.engine.Analyze(ctx, detection.AnalysisInput{
		Session: s,
		Samples: samples,
		Answers: answers,
		Now:     now,
	})
	if err != nil {
		return SessionReport{}, fmt.Errorf("fraud analysis: %w", err)
	}

	report := SessionReport{
		CorrelationID: logging.CorrelationIDFromContext(ctx),
		SessionID:     s.SessionID,
		AssessedAt:    now.UTC(),
		Fraud:         fraud,
		Grids:         make([]grid.AnalysisResult, 0, len(grids)),
	}

	for _, q := range grids {
		responses := validation.Filter("grid_response", q.Responses)
		scale := q.Scale
		if scale != nil && validation.ValidateStruct(scale) != nil {
			logging.CtxDebug(ctx).Str("question_id", q.QuestionID).Msg("ignoring invalid grid scale")
			scale = nil
		}
		report.Grids = append(report.Grids, a.grid.Analyze(s.SessionID, q.QuestionID, responses, scale))
	}

	report.Timing, err = a.timing.AnalyzeSession(s.SessionID, timed, filterPopulation(req.Population.Timing))
	if err != nil {
		return SessionReport{}, fmt.Errorf("timing analysis: %w", err)
	}
	if report.Timing == nil {
		report.Timing = []timing.AnalysisResult{}
	}

	report.Summary = Summarize(report.Grids, report.Timing)

	logging.CtxInfo(ctx).
		Str("risk_level", string(fraud.RiskLevel)).
		Int("straight_lined_grids", report.Summary.StraightLinedGrids).
		Int("speeders", report.Summary.SpeederCount).
		Int("anomalies", report.Summary.AnomalyCount).
		Msg("session assessed")

	return report, nil
}

func filterPopulation(pop map[string][]timing.Response) map[string][]timing.Response {
	if len(pop) == 0 {
		return pop
	}
	out := make(map[string][]timing.Response, len(pop))
	for id, rs := range pop {
		out[id] = validation.Filter("population_timing_response", rs)
	}
	return out
}

// NewStore builds the population history for a request: every population
// session plus the session under assessment, so the IP counts include it.
func NewStore(ctx context.Context, resolver geo.Resolver, req Request) (*history.MemoryStore, error) {
	store := history.NewMemoryStore(resolver)
	for _, rec := range validation.Filter("population_session", req.Population.Sessions) {
		if err := store.Add(ctx, rec); err != nil {
			return nil, err
		}
	}

	self := history.Record{
		Session: req.Session,
		Samples: validation.Filter("behavior_sample", req.Samples),
		Answers: validation.Filter("text_answer", req.Answers),
	}
	if err := store.Add(ctx, self); err != nil {
		return nil, fmt.Errorf("%w: session: %v", scoring.ErrInvalidArgument, err)
	}
	return store, nil
}
