// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package similarity

import (
	"math"
	"testing"
)

func TestRatio_EmptyInput(t *testing.T) {
	inputs := []string{"", "a", "hello world", "   "}
	for _, x := range inputs {
		if got := Ratio("", x); got != 0 {
			t.Errorf("Ratio(\"\", %q) = %v, want 0", x, got)
		}
		if got := Ratio(x, ""); got != 0 {
			t.Errorf("Ratio(%q, \"\") = %v, want 0", x, got)
		}
	}
}

func TestRatio_Identity(t *testing.T) {
	inputs := []string{"a", "The product was great", "  spaced  ", "ÜNICODE çase"}
	for _, x := range inputs {
		if got := Ratio(x, x); got != 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, want 1.0", x, x, got)
		}
	}
}

func TestRatio_Normalization(t *testing.T) {
	if got := Ratio("  Great Service ", "great service"); got != 1.0 {
		t.Errorf("case and surrounding whitespace should be ignored, got %v", got)
	}
}

func TestRatio_KnownValues(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		// 2*M/T with M=3 ("abc") and T=8
		{"abcd", "abce", 0.75},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRatio_SymmetricAndBounded(t *testing.T) {
	pairs := [][2]string{
		{"I liked the onboarding flow", "i liked the onboarding"},
		{"aaaaabbbbb", "bbbbbaaaaa"},
		{"quick brown fox", "the lazy dog"},
		{"short", "a much longer answer about something else entirely"},
	}

	for _, p := range pairs {
		ab := Ratio(p[0], p[1])
		ba := Ratio(p[1], p[0])
		if ab != ba {
			t.Errorf("Ratio not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Ratio(%q, %q) = %v out of [0,1]", p[0], p[1], ab)
		}
	}
}
