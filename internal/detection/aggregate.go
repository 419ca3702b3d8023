// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package detection

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/scoring"
)

// DuplicateFlagThreshold is the overall score at which a session is flagged
// as a duplicate. It coincides with the HIGH risk boundary.
const DuplicateFlagThreshold = 0.7

// FlagMateriality is the signal score a signal must exceed to be listed in
// FlagReasons.
const FlagMateriality = 0.0

// FraudWeights are the fixed weights of each signal in the overall score.
type FraudWeights struct {
	IP          float64 `json:"ip"`
	Fingerprint float64 `json:"fingerprint"`
	Duplicate   float64 `json:"duplicate"`
	Geolocation float64 `json:"geolocation"`
	Velocity    float64 `json:"velocity"`
}

// DefaultFraudWeights returns the production signal weights. They sum to 1.
func DefaultFraudWeights() FraudWeights {
	return FraudWeights{
		IP:          0.25,
		Fingerprint: 0.25,
		Duplicate:   0.20,
		Geolocation: 0.15,
		Velocity:    0.15,
	}
}

// Sum returns the total of all weights.
func (w FraudWeights) Sum() float64 {
	return w.IP + w.Fingerprint + w.Duplicate + w.Geolocation + w.Velocity
}

// Validate checks that every weight is in [0, 1] and the weights sum to 1.
func (w FraudWeights) Validate() error {
	for name, v := range map[string]float64{
		"ip": w.IP, "fingerprint": w.Fingerprint, "duplicate": w.Duplicate,
		"geolocation": w.Geolocation, "velocity": w.Velocity,
	} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return scoring.InvalidArgumentf("%s weight must be in [0, 1], got %v", name, v)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-9 {
		return scoring.InvalidArgumentf("fraud weights must sum to 1, got %.4f", w.Sum())
	}
	return nil
}

// Score returns the clamped weighted sum of the signal scores.
func (w FraudWeights) Score(s SignalSet) float64 {
	return scoring.Clamp01(
		w.IP*s.IP.Score +
			w.Fingerprint*s.Fingerprint.Score +
			w.Duplicate*s.Duplicate.Score +
			w.Geolocation*s.Geolocation.Score +
			w.Velocity*s.Velocity.Score,
	)
}

// riskRules bucket an overall score, highest first.
var riskRules = []scoring.Rule[float64, RiskLevel]{
	{Name: string(RiskCritical), When: func(v float64) bool { return v >= 0.9 }, Result: RiskCritical},
	{Name: string(RiskHigh), When: func(v float64) bool { return v >= 0.7 }, Result: RiskHigh},
	{Name: string(RiskMedium), When: func(v float64) bool { return v >= 0.4 }, Result: RiskMedium},
}

// ClassifyRisk maps an overall fraud score to a risk level.
func ClassifyRisk(score float64) RiskLevel {
	return scoring.FirstMatch(riskRules, score, RiskLow)
}

// flagBuilder explains one signal for FlagReasons.
type flagBuilder struct {
	signal   SignalType
	score    func(SignalSet) float64
	detail   func(SignalSet) string
	evidence func(SignalSet) any
}

// flagRules list the reportable signals in report order. Every rule whose
// signal clears FlagMateriality contributes an entry.
var flagRules = []scoring.Rule[SignalSet, flagBuilder]{
	{
		Name: "ip_reuse",
		When: func(s SignalSet) bool { return s.IP.Score > FlagMateriality },
		Result: flagBuilder{
			signal: SignalIP,
			score:  func(s SignalSet) float64 { return s.IP.Score },
			detail: func(s SignalSet) string {
				return fmt.Sprintf("IP address used by %d sessions (%d today)", s.IP.UsageCount, s.IP.SessionsToday)
			},
			evidence: func(s SignalSet) any { return s.IP },
		},
	},
	{
		Name: "fingerprint_reuse",
		When: func(s SignalSet) bool { return s.Fingerprint.Score > FlagMateriality },
		Result: flagBuilder{
			signal: SignalFingerprint,
			score:  func(s SignalSet) float64 { return s.Fingerprint.Score },
			detail: func(s SignalSet) string {
				return fmt.Sprintf("device fingerprint shared with %d other sessions", s.Fingerprint.UsageCount)
			},
			evidence: func(s SignalSet) any {
				return map[string]any{
					"fingerprint": logging.RedactFingerprint(s.Fingerprint.Fingerprint),
					"usage_count": s.Fingerprint.UsageCount,
				}
			},
		},
	},
	{
		Name: "duplicate_responses",
		When: func(s SignalSet) bool { return s.Duplicate.Score > FlagMateriality },
		Result: flagBuilder{
			signal: SignalDuplicate,
			score:  func(s SignalSet) float64 { return s.Duplicate.Score },
			detail: func(s SignalSet) string {
				return fmt.Sprintf("%d near-duplicate answers, max similarity %.2f",
					s.Duplicate.DuplicateCount, s.Duplicate.MaxSimilarity)
			},
			evidence: func(s SignalSet) any { return s.Duplicate },
		},
	},
	{
		Name: "location_inconsistent",
		When: func(s SignalSet) bool { return s.Geolocation.Score > FlagMateriality },
		Result: flagBuilder{
			signal: SignalGeolocation,
			score:  func(s SignalSet) float64 { return s.Geolocation.Score },
			detail: func(s SignalSet) string {
				return fmt.Sprintf("session in %s, related sessions in %s",
					s.Geolocation.CountryCode, strings.Join(s.Geolocation.ForeignCountries, ", "))
			},
			evidence: func(s SignalSet) any { return s.Geolocation },
		},
	},
	{
		Name: "high_velocity",
		When: func(s SignalSet) bool { return s.Velocity.Score > FlagMateriality },
		Result: flagBuilder{
			signal: SignalVelocity,
			score:  func(s SignalSet) float64 { return s.Velocity.Score },
			detail: func(s SignalSet) string {
				return fmt.Sprintf("%d responses in the last hour", s.Velocity.ResponsesPerHour)
			},
			evidence: func(s SignalSet) any { return s.Velocity },
		},
	},
}

// Aggregate combines the five signals with DefaultFraudWeights.
func Aggregate(s SignalSet) FraudIndicator {
	return AggregateWithWeights(s, DefaultFraudWeights())
}

// AggregateWithWeights combines the five signals into a FraudIndicator.
func AggregateWithWeights(s SignalSet, w FraudWeights) FraudIndicator {
	overall := w.Score(s)

	return FraudIndicator{
		Fingerprint: s.Fingerprint.Fingerprint,

		IPRiskScore:          scoring.Clamp01(s.IP.Score),
		FingerprintRiskScore: scoring.Clamp01(s.Fingerprint.Score),
		DuplicateRiskScore:   scoring.Clamp01(s.Duplicate.Score),
		GeolocationRiskScore: scoring.Clamp01(s.Geolocation.Score),
		VelocityRiskScore:    scoring.Clamp01(s.Velocity.Score),

		IPUsageCount:          s.IP.UsageCount,
		SessionsToday:         s.IP.SessionsToday,
		FingerprintUsageCount: s.Fingerprint.UsageCount,
		DuplicateCount:        s.Duplicate.DuplicateCount,
		MaxSimilarity:         s.Duplicate.MaxSimilarity,
		ResponsesPerHour:      s.Velocity.ResponsesPerHour,
		CountryCode:           s.Geolocation.CountryCode,
		LocationConsistent:    s.Geolocation.Consistent,

		OverallFraudScore: overall,
		RiskLevel:         ClassifyRisk(overall),
		IsDuplicate:       overall >= DuplicateFlagThreshold,
		FlagReasons:       flagReasons(s),
	}
}

// flagReasons builds one entry per material signal.
func flagReasons(s SignalSet) map[string]FlagReason {
	reasons := make(map[string]FlagReason)
	for _, rule := range flagRules {
		if !rule.When(s) {
			continue
		}
		b := rule.Result
		reason := FlagReason{
			Signal: b.signal,
			Score:  b.score(s),
			Detail: b.detail(s),
		}
		if evidence, err := json.Marshal(b.evidence(s)); err == nil {
			reason.Evidence = evidence
		} else {
			logging.Warn().Err(err).Str("reason", rule.Name).Msg("failed to encode flag evidence")
		}
		reasons[rule.Name] = reason
	}
	return reasons
}
