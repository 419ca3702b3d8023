// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package detection

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/surveyshield/internal/fingerprint"
)

// Session is the read-only context of one survey session.
// Only SessionID is required; the other identifiers narrow population
// queries when present.
type Session struct {
	SessionID    string    `json:"session_id" validate:"required"`
	SurveyID     string    `json:"survey_id,omitempty"`
	PlatformID   string    `json:"platform_id,omitempty"`
	RespondentID string    `json:"respondent_id,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty" validate:"omitempty,ip"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Fingerprint returns the session's device fingerprint.
func (s Session) Fingerprint(samples []fingerprint.BehaviorSample) string {
	return fingerprint.Generate(s.UserAgent, s.PlatformID, samples)
}

// TextAnswer is one free-text answer. SessionID is empty for the session
// under analysis.
type TextAnswer struct {
	SessionID  string `json:"session_id,omitempty"`
	QuestionID string `json:"question_id" validate:"required"`
	Text       string `json:"text"`
}

// SignalType identifies a fraud signal.
type SignalType string

const (
	SignalIP          SignalType = "ip"
	SignalFingerprint SignalType = "fingerprint"
	SignalDuplicate   SignalType = "duplicate"
	SignalGeolocation SignalType = "geolocation"
	SignalVelocity    SignalType = "velocity"
)

// RiskLevel buckets the overall fraud score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// IPResult is the IP reuse signal.
type IPResult struct {
	Score         float64 `json:"score"`
	UsageCount    int     `json:"usage_count"`
	SessionsToday int     `json:"sessions_today"`
}

// FingerprintResult is the device fingerprint reuse signal.
type FingerprintResult struct {
	Score       float64 `json:"score"`
	Fingerprint string  `json:"fingerprint,omitempty"`
	UsageCount  int     `json:"usage_count"`
}

// DuplicateResult is the duplicate free-text signal.
type DuplicateResult struct {
	Score          float64 `json:"score"`
	DuplicateCount int     `json:"duplicate_count"`
	MaxSimilarity  float64 `json:"max_similarity"`
	// QuestionIDs lists the questions with at least one duplicate, in the
	// order they were first matched.
	QuestionIDs []string `json:"question_ids,omitempty"`
}

// GeolocationResult is the location consistency signal.
type GeolocationResult struct {
	Score       float64 `json:"score"`
	CountryCode string  `json:"country_code,omitempty"`
	Consistent  bool    `json:"consistent"`
	// ForeignCountries are the distinct other countries seen, sorted.
	ForeignCountries []string `json:"foreign_countries,omitempty"`
}

// VelocityResult is the submission velocity signal.
type VelocityResult struct {
	Score            float64 `json:"score"`
	ResponsesPerHour int     `json:"responses_per_hour"`
}

// SignalSet is the five signal results for one session.
type SignalSet struct {
	IP          IPResult          `json:"ip"`
	Fingerprint FingerprintResult `json:"fingerprint"`
	Duplicate   DuplicateResult   `json:"duplicate"`
	Geolocation GeolocationResult `json:"geolocation"`
	Velocity    VelocityResult    `json:"velocity"`
}

// Scores returns each signal's score keyed by signal name.
func (s SignalSet) Scores() map[string]float64 {
	return map[string]float64{
		string(SignalIP):          s.IP.Score,
		string(SignalFingerprint): s.Fingerprint.Score,
		string(SignalDuplicate):   s.Duplicate.Score,
		string(SignalGeolocation): s.Geolocation.Score,
		string(SignalVelocity):    s.Velocity.Score,
	}
}

// FlagReason explains one contributing signal.
type FlagReason struct {
	Signal   SignalType      `json:"signal"`
	Score    float64         `json:"score"`
	Detail   string          `json:"detail"`
	Evidence json.RawMessage `json:"evidence,omitempty"`
}

// FraudIndicator is the fraud assessment of one session. It is built once
// by Aggregate and never modified; re-analysis produces a new value.
type FraudIndicator struct {
	SessionID   string `json:"session_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	IPRiskScore          float64 `json:"ip_risk_score"`
	FingerprintRiskScore float64 `json:"fingerprint_risk_score"`
	DuplicateRiskScore   float64 `json:"duplicate_risk_score"`
	GeolocationRiskScore float64 `json:"geolocation_risk_score"`
	VelocityRiskScore    float64 `json:"velocity_risk_score"`

	IPUsageCount          int     `json:"ip_usage_count"`
	SessionsToday         int     `json:"sessions_today"`
	FingerprintUsageCount int     `json:"fingerprint_usage_count"`
	DuplicateCount        int     `json:"duplicate_count"`
	MaxSimilarity         float64 `json:"max_similarity"`
	ResponsesPerHour      int     `json:"responses_per_hour"`
	CountryCode           string  `json:"country_code,omitempty"`
	LocationConsistent    bool    `json:"location_consistent"`

	OverallFraudScore float64               `json:"overall_fraud_score"`
	RiskLevel         RiskLevel             `json:"risk_level"`
	IsDuplicate       bool                  `json:"is_duplicate"`
	FlagReasons       map[string]FlagReason `json:"flag_reasons"`
}

// History supplies population context for fraud analysis. Implementations
// must be safe for concurrent use; the engine queries them in parallel.
type History interface {
	// IPSessionCounts counts sessions from ip in total and since dayStart.
	IPSessionCounts(ctx context.Context, ip string, dayStart time.Time) (total, today int, err error)

	// FingerprintSessionCount counts other sessions sharing fingerprint.
	FingerprintSessionCount(ctx context.Context, fingerprint, excludeSessionID string) (int, error)

	// OtherAnswers returns other sessions' answers to the given questions.
	OtherAnswers(ctx context.Context, surveyID string, questionIDs []string, excludeSessionID string) ([]TextAnswer, error)

	// OtherSessionCountries returns the resolved country codes of other
	// sessions in the same context: the respondent, or for an anonymous
	// session the same IP within the survey.
	OtherSessionCountries(ctx context.Context, s Session) ([]string, error)

	// ResponseTimestamps returns submission times in the session's context
	// since the given time.
	ResponseTimestamps(ctx context.Context, s Session, since time.Time) ([]time.Time, error)
}
