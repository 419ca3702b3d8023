// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package detection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/surveyshield/internal/geo"
	"github.com/tomtom215/surveyshield/internal/scoring"
	"github.com/tomtom215/surveyshield/internal/similarity"
)

// DuplicateSimilarityThreshold is the similarity at which two answers count
// as duplicates.
const DuplicateSimilarityThreshold = 0.70

type ipCounts struct{ total, today int }

// ipRules score IP reuse, highest risk first.
var ipRules = []scoring.Rule[ipCounts, float64]{
	{Name: "heavy", When: func(c ipCounts) bool { return c.total >= 10 || c.today >= 5 }, Result: 0.8},
	{Name: "frequent", When: func(c ipCounts) bool { return c.total >= 5 || c.today >= 3 }, Result: 0.6},
	{Name: "repeated", When: func(c ipCounts) bool { return c.total >= 3 }, Result: 0.4},
	{Name: "shared", When: func(c ipCounts) bool { return c.total >= 2 }, Result: 0.2},
}

// threshold is one rung of a score ladder: values at or above floor score
// score.
type threshold[T int | float64] struct {
	floor T
	score float64
}

// ladder turns thresholds, highest first, into a first-match rule list.
func ladder[T int | float64](steps ...threshold[T]) []scoring.Rule[T, float64] {
	rules := make([]scoring.Rule[T, float64], len(steps))
	for i, s := range steps {
		floor := s.floor
		rules[i] = scoring.Rule[T, float64]{
			Name:   fmt.Sprintf(">=%v", floor),
			When:   func(v T) bool { return v >= floor },
			Result: s.score,
		}
	}
	return rules
}

var (
	fingerprintRules = ladder(threshold[int]{5, 0.9}, threshold[int]{3, 0.7}, threshold[int]{2, 0.5})
	duplicateRules   = ladder(threshold[float64]{0.95, 1.0}, threshold[float64]{0.85, 0.8}, threshold[float64]{DuplicateSimilarityThreshold, 0.6})
	velocityRules    = ladder(threshold[int]{20, 1.0}, threshold[int]{10, 0.8}, threshold[int]{5, 0.6}, threshold[int]{3, 0.4})
	foreignRules     = ladder(threshold[int]{3, 0.9}, threshold[int]{2, 0.7}, threshold[int]{1, 0.5})
)

// AnalyzeIPReuse scores how many sessions came from one IP address.
func AnalyzeIPReuse(total, today int) (IPResult, error) {
	if err := scoring.RequireNonNegative("ip usage count", total); err != nil {
		return IPResult{}, err
	}
	if err := scoring.RequireNonNegative("sessions today", today); err != nil {
		return IPResult{}, err
	}
	return IPResult{
		Score:         scoring.FirstMatch(ipRules, ipCounts{total, today}, 0),
		UsageCount:    total,
		SessionsToday: today,
	}, nil
}

// AnalyzeFingerprintReuse scores how many other sessions share a device
// fingerprint.
func AnalyzeFingerprintReuse(count int) (FingerprintResult, error) {
	if err := scoring.RequireNonNegative("fingerprint usage count", count); err != nil {
		return FingerprintResult{}, err
	}
	return FingerprintResult{
		Score:      scoring.FirstMatch(fingerprintRules, count, 0),
		UsageCount: count,
	}, nil
}

// AnalyzeDuplicateResponses compares own answers against other sessions'
// answers to the same questions. Every pair at or above
// DuplicateSimilarityThreshold counts as a duplicate; the score follows the
// single most similar pair.
func AnalyzeDuplicateResponses(own, others []TextAnswer) DuplicateResult {
	byQuestion := make(map[string][]string, len(others))
	for _, o := range others {
		if strings.TrimSpace(o.Text) == "" {
			continue
		}
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o.Text)
	}

	var result DuplicateResult
	flagged := make(map[string]bool)
	for _, a := range own {
		for _, text := range byQuestion[a.QuestionID] {
			sim := similarity.Ratio(a.Text, text)
			if sim > result.MaxSimilarity {
				result.MaxSimilarity = sim
			}
			if sim < DuplicateSimilarityThreshold {
				continue
			}
			result.DuplicateCount++
			if !flagged[a.QuestionID] {
				flagged[a.QuestionID] = true
				result.QuestionIDs = append(result.QuestionIDs, a.QuestionID)
			}
		}
	}

	result.Score = scoring.FirstMatch(duplicateRules, result.MaxSimilarity, 0)
	return result
}

// AnalyzeGeolocation checks the session's country against the countries of
// related sessions. An unknown own country is never a signal.
func AnalyzeGeolocation(country string, others []string) GeolocationResult {
	country = strings.ToUpper(strings.TrimSpace(country))
	result := GeolocationResult{CountryCode: country, Consistent: true}
	if country == geo.Unknown {
		return result
	}

	seen := make(map[string]bool)
	for _, o := range others {
		o = strings.ToUpper(strings.TrimSpace(o))
		if o == geo.Unknown || o == country || seen[o] {
			continue
		}
		seen[o] = true
		result.ForeignCountries = append(result.ForeignCountries, o)
	}
	sort.Strings(result.ForeignCountries)

	if len(result.ForeignCountries) > 0 {
		result.Consistent = false
		result.Score = scoring.FirstMatch(foreignRules, len(result.ForeignCountries), 0)
	}
	return result
}

// AnalyzeVelocity scores submissions in the trailing hour.
func AnalyzeVelocity(responsesLastHour int) (VelocityResult, error) {
	if err := scoring.RequireNonNegative("responses per hour", responsesLastHour); err != nil {
		return VelocityResult{}, err
	}
	return VelocityResult{
		Score:            scoring.FirstMatch(velocityRules, responsesLastHour, 0),
		ResponsesPerHour: responsesLastHour,
	}, nil
}

// CountWithinTrailingHour counts timestamps in (now-1h, now].
func CountWithinTrailingHour(now time.Time, timestamps []time.Time) int {
	start := now.Add(-time.Hour)
	n := 0
	for _, ts := range timestamps {
		if ts.After(start) && !ts.After(now) {
			n++
		}
	}
	return n
}
