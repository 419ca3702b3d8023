// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package similarity measures normalized text similarity between free-text
// survey answers.
//
// Ratio uses the Ratcliff/Obershelp algorithm (longest matching blocks,
// applied recursively) as implemented by go-difflib's SequenceMatcher, over
// the runes of the lower-cased, trimmed inputs.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/tomtom215/surveyshield/internal/scoring"
)

// Ratio returns a similarity in [0, 1] between a and b.
//
// An empty input on either side yields 0. Inputs that are equal after
// normalization yield exactly 1. The result is symmetric.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	na, nb := normalize(a), normalize(b)
	if na == nb {
		return 1.0
	}

	// The matcher's junk heuristic only looks at its second sequence, so the
	// pair is put in canonical order to keep Ratio(a,b) == Ratio(b,a).
	if na > nb {
		na, nb = nb, na
	}

	m := difflib.NewMatcher(runes(na), runes(nb))
	return scoring.Clamp01(m.Ratio())
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// runes splits s into one element per UTF-8 encoded rune.
func runes(s string) []string {
	return strings.Split(s, "")
}
