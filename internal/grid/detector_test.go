// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestNewDetector_ZeroConfigUsesDefaults(t *testing.T) {
	d := NewDetector(Config{})
	if got := d.Config(); got != DefaultConfig() {
		t.Errorf("Config() = %+v, want %+v", got, DefaultConfig())
	}
}

func TestDetector_Analyze(t *testing.T) {
	d := NewDetector(DefaultConfig())

	responses := numericGrid(4, 4, 4, 4, 4)
	for i := range responses {
		responses[i].ResponseTimeMs = int64Ptr(150)
	}

	got := d.Analyze("s1", "q1", responses, &Scale{Min: 1, Max: 5})

	if got.SessionID != "s1" || got.QuestionID != "q1" {
		t.Errorf("ids = (%q, %q), want (s1, q1)", got.SessionID, got.QuestionID)
	}
	if !got.IsStraightLined {
		t.Error("IsStraightLined = false, want true")
	}
	if got.StraightLinePercentage != 1 {
		t.Errorf("StraightLinePercentage = %v, want 1", got.StraightLinePercentage)
	}
	if got.PatternType == nil || *got.PatternType != PatternStraightLine {
		t.Errorf("PatternType = %v, want %v", got.PatternType, PatternStraightLine)
	}
	if got.VarianceScore != 0 {
		t.Errorf("VarianceScore = %v, want 0", got.VarianceScore)
	}
	if got.SatisficingScore < 0.9 {
		t.Errorf("SatisficingScore = %v, want >= 0.9 for fast flat answers", got.SatisficingScore)
	}
	if got.ResponseCount != 5 {
		t.Errorf("ResponseCount = %d, want 5", got.ResponseCount)
	}
}

func TestDetector_AnalyzeEmpty(t *testing.T) {
	got := NewDetector(DefaultConfig()).Analyze("s1", "q1", nil, nil)

	if got.IsStraightLined || got.StraightLinePercentage != 0 {
		t.Errorf("straight-lining = (%v, %v), want (false, 0)", got.IsStraightLined, got.StraightLinePercentage)
	}
	if got.PatternType != nil {
		t.Errorf("PatternType = %v, want nil", *got.PatternType)
	}
	if got.SatisficingScore != 0 || got.VarianceScore != 0 {
		t.Errorf("scores = (%v, %v), want zero", got.VarianceScore, got.SatisficingScore)
	}
}

func TestDetector_Configure(t *testing.T) {
	d := NewDetector(DefaultConfig())

	if err := d.Configure(json.RawMessage(`{"straight_line_threshold": 0.6}`)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	cfg := d.Config()
	if cfg.StraightLineThreshold != 0.6 {
		t.Errorf("StraightLineThreshold = %v, want 0.6", cfg.StraightLineThreshold)
	}
	if cfg.MinPatternResponses != 3 {
		t.Errorf("MinPatternResponses = %d, want unchanged 3", cfg.MinPatternResponses)
	}

	got := d.Analyze("s", "q", numericGrid(2, 2, 2, 5, 5), nil)
	if !got.IsStraightLined {
		t.Error("expected reconfigured threshold to flag 60%")
	}
}

func TestDetector_ConfigureRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", `{not json`},
		{"threshold out of range", `{"straight_line_threshold": 2}`},
		{"weights not summing", `{"variance_weight": 0.9}`},
		{"min responses", `{"min_pattern_responses": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(DefaultConfig())
			if err := d.Configure(json.RawMessage(tt.raw)); err == nil {
				t.Error("Configure() error = nil, want error")
			}
			if d.Config() != DefaultConfig() {
				t.Error("rejected configuration must not be applied")
			}
		})
	}
}
