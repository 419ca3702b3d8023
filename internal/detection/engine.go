// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package detection

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/surveyshield/internal/fingerprint"
	"github.com/tomtom215/surveyshield/internal/geo"
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/metrics"
)

// AnalysisInput is everything the engine needs about one session.
type AnalysisInput struct {
	Session Session
	Samples []fingerprint.BehaviorSample
	Answers []TextAnswer

	// Now anchors the "today" and trailing-hour windows. Zero means the
	// engine clock.
	Now time.Time
}

// Engine runs the five fraud analyzers against population context from a
// History and aggregates them into a FraudIndicator.
type Engine struct {
	history  History
	resolver geo.Resolver
	weights  FraudWeights
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWeights overrides DefaultFraudWeights.
func WithWeights(w FraudWeights) EngineOption {
	return func(e *Engine) { e.weights = w }
}

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a fraud engine. A nil resolver resolves every IP to
// geo.Unknown.
func NewEngine(history History, resolver geo.Resolver, opts ...EngineOption) (*Engine, error) {
	if history == nil {
		return nil, fmt.Errorf("detection engine requires a history")
	}
	e := &Engine{
		history:  history,
		resolver: resolver,
		weights:  DefaultFraudWeights(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Analyze scores one session. The five signals are gathered concurrently;
// the first History failure cancels the rest and is returned wrapped with
// its signal name.
func (e *Engine) Analyze(ctx context.Context, in AnalysisInput) (FraudIndicator, error) {
	start := time.Now()
	now := in.Now
	if now.IsZero() {
		now = e.now()
	}
	s := in.Session
	ctx = logging.ContextWithSessionID(ctx, s.SessionID)

	var set SignalSet
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := e.ipSignal(gctx, s, now)
		set.IP = r
		return signalErr(SignalIP, err)
	})
	g.Go(func() error {
		r, err := e.fingerprintSignal(gctx, s, in.Samples)
		set.Fingerprint = r
		return signalErr(SignalFingerprint, err)
	})
	g.Go(func() error {
		r, err := e.duplicateSignal(gctx, s, in.Answers)
		set.Duplicate = r
		return signalErr(SignalDuplicate, err)
	})
	g.Go(func() error {
		r, err := e.geolocationSignal(gctx, s)
		set.Geolocation = r
		return signalErr(SignalGeolocation, err)
	})
	g.Go(func() error {
		r, err := e.velocitySignal(gctx, s, now)
		set.Velocity = r
		return signalErr(SignalVelocity, err)
	})

	if err := g.Wait(); err != nil {
		logging.CtxErr(ctx, err).Msg("fraud analysis failed")
		return FraudIndicator{}, err
	}

	indicator := AggregateWithWeights(set, e.weights)
	indicator.SessionID = s.SessionID

	metrics.RecordFraudAnalysis(time.Since(start), set.Scores(), indicator.OverallFraudScore,
		string(indicator.RiskLevel), indicator.IsDuplicate)

	event := logging.CtxInfo(ctx)
	if indicator.RiskLevel == RiskLow {
		event = logging.CtxDebug(ctx)
	}
	event.
		Str("ip", logging.RedactIP(s.IPAddress)).
		Str("respondent", logging.RedactID(s.RespondentID)).
		Float64("overall_fraud_score", indicator.OverallFraudScore).
		Str("risk_level", string(indicator.RiskLevel)).
		Bool("is_duplicate", indicator.IsDuplicate).
		Int("flags", len(indicator.FlagReasons)).
		Msg("fraud analysis complete")

	return indicator, nil
}

// signalErr tags a collaborator failure with its signal and counts it.
func signalErr(signal SignalType, err error) error {
	if err == nil {
		return nil
	}
	metrics.RecordHistoryError(string(signal))
	return fmt.Errorf("%s signal: %w", signal, err)
}

func (e *Engine) ipSignal(ctx context.Context, s Session, now time.Time) (IPResult, error) {
	if s.IPAddress == "" {
		return AnalyzeIPReuse(0, 0)
	}
	utc := now.UTC()
	dayStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	total, today, err := e.history.IPSessionCounts(ctx, s.IPAddress, dayStart)
	if err != nil {
		return IPResult{}, err
	}
	return AnalyzeIPReuse(total, today)
}

func (e *Engine) fingerprintSignal(ctx context.Context, s Session, samples []fingerprint.BehaviorSample) (FingerprintResult, error) {
	fp := s.Fingerprint(samples)
	count, err := e.history.FingerprintSessionCount(ctx, fp, s.SessionID)
	if err != nil {
		return FingerprintResult{}, err
	}
	r, err := AnalyzeFingerprintReuse(count)
	r.Fingerprint = fp
	return r, err
}

func (e *Engine) duplicateSignal(ctx context.Context, s Session, answers []TextAnswer) (DuplicateResult, error) {
	if len(answers) == 0 {
		return DuplicateResult{}, nil
	}
	questionIDs := make([]string, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	for _, a := range answers {
		if !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			questionIDs = append(questionIDs, a.QuestionID)
		}
	}

	others, err := e.history.OtherAnswers(ctx, s.SurveyID, questionIDs, s.SessionID)
	if err != nil {
		return DuplicateResult{}, err
	}
	return AnalyzeDuplicateResponses(answers, others), nil
}

// geolocationSignal resolves the session's own country best-effort. A
// resolver failure degrades to an unknown country rather than failing.
func (e *Engine) geolocationSignal(ctx context.Context, s Session) (GeolocationResult, error) {
	country := e.resolveCountry(ctx, s.IPAddress)
	if country == geo.Unknown {
		return AnalyzeGeolocation(geo.Unknown, nil), nil
	}

	others, err := e.history.OtherSessionCountries(ctx, s)
	if err != nil {
		return GeolocationResult{}, err
	}
	return AnalyzeGeolocation(country, others), nil
}

func (e *Engine) resolveCountry(ctx context.Context, ip string) string {
	if e.resolver == nil || ip == "" {
		metrics.RecordGeoLookup(metrics.GeoLookupUnknown)
		return geo.Unknown
	}

	country, err := e.resolver.Country(ctx, ip)
	switch {
	case err != nil:
		metrics.RecordGeoLookup(metrics.GeoLookupError)
		logging.CtxWarn(ctx).Err(err).Str("ip", logging.RedactIP(ip)).Msg("geo lookup failed, treating location as unknown")
		return geo.Unknown
	case country == geo.Unknown:
		metrics.RecordGeoLookup(metrics.GeoLookupUnknown)
	default:
		metrics.RecordGeoLookup(metrics.GeoLookupResolved)
	}
	return country
}

func (e *Engine) velocitySignal(ctx context.Context, s Session, now time.Time) (VelocityResult, error) {
	timestamps, err := e.history.ResponseTimestamps(ctx, s, now.Add(-time.Hour))
	if err != nil {
		return VelocityResult{}, err
	}
	return AnalyzeVelocity(CountWithinTrailingHour(now, timestamps))
}
