// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below zero", -0.5, 0},
		{"zero", 0, 0},
		{"inside", 0.42, 0.42},
		{"one", 1, 1},
		{"above one", 1.7, 1},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 1},
		{"-Inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp01(tt.in); got != tt.want {
				t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstMatch_OrderWins(t *testing.T) {
	rules := []Rule[int, string]{
		{Name: "big", When: func(v int) bool { return v >= 10 }, Result: "big"},
		{Name: "medium", When: func(v int) bool { return v >= 5 }, Result: "medium"},
		{Name: "any-positive", When: func(v int) bool { return v > 0 }, Result: "small"},
	}

	tests := []struct {
		in   int
		want string
	}{
		{15, "big"},
		{10, "big"},
		{7, "medium"},
		{1, "small"},
		{0, "none"},
	}

	for _, tt := range tests {
		if got := FirstMatch(rules, tt.in, "none"); got != tt.want {
			t.Errorf("FirstMatch(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}

	r, ok := Match(rules, 12)
	if !ok || r.Name != "big" {
		t.Errorf("Match(12) = %q, %v; want big, true", r.Name, ok)
	}
}

func TestRequireNonNegative(t *testing.T) {
	if err := RequireNonNegative("count", 0); err != nil {
		t.Errorf("unexpected error for zero: %v", err)
	}
	err := RequireNonNegative("count", -1)
	if err == nil {
		t.Fatal("expected error for negative count")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error %v should wrap ErrInvalidArgument", err)
	}
}

func TestStats(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(xs); got != 5 {
		t.Errorf("Mean = %v, want 5", got)
	}
	if got := PopulationStdDev(xs); math.Abs(got-2) > 1e-12 {
		t.Errorf("PopulationStdDev = %v, want 2", got)
	}
	if got := DistinctCount(xs); got != 5 {
		t.Errorf("DistinctCount = %d, want 5", got)
	}
	if Mean(nil) != 0 || PopulationStdDev([]float64{3}) != 0 {
		t.Error("empty and single-element inputs should yield 0")
	}
}
