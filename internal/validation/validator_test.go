// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// timedAnswer mirrors the shape of a per-question timing record.
type timedAnswer struct {
	QuestionID     string `validate:"required"`
	QuestionTimeMs int64  `validate:"gte=0"`
}

// sessionRecord mirrors the shape of a session context record.
type sessionRecord struct {
	SessionID   string `validate:"required"`
	IPAddress   string `validate:"omitempty,ip"`
	CountryCode string `validate:"omitempty,iso3166_1_alpha2"`
}

// gridCell mirrors the shape of a grid response record.
type gridCell struct {
	RowID         int    `validate:"gte=0"`
	ColumnID      *int   `validate:"omitempty,gte=0"`
	ResponseValue string `validate:"required_without=ColumnID"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"timed answer", &timedAnswer{QuestionID: "q1", QuestionTimeMs: 0}},
		{"session minimal", &sessionRecord{SessionID: "s1"}},
		{"session full", &sessionRecord{SessionID: "s1", IPAddress: "2001:db8::1", CountryCode: "GB"}},
		{"grid cell value only", &gridCell{RowID: 0, ResponseValue: "3"}},
		{"grid cell column only", &gridCell{RowID: 2, ColumnID: intPtr(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing question id", &timedAnswer{QuestionTimeMs: 10}, "QuestionID", "required"},
		{"negative time", &timedAnswer{QuestionID: "q", QuestionTimeMs: -1}, "QuestionTimeMs", "gte"},
		{"missing session id", &sessionRecord{}, "SessionID", "required"},
		{"bad ip", &sessionRecord{SessionID: "s", IPAddress: "nope"}, "IPAddress", "ip"},
		{"bad country", &sessionRecord{SessionID: "s", CountryCode: "XX1"}, "CountryCode", "iso3166_1_alpha2"},
		{"negative row", &gridCell{RowID: -1, ResponseValue: "1"}, "RowID", "gte"},
		{"empty cell", &gridCell{RowID: 1}, "ResponseValue", "required_without"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("expected at least one field error")
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestRequestValidationError_Messages(t *testing.T) {
	err := ValidateStruct(&timedAnswer{QuestionTimeMs: -5})
	if err == nil {
		t.Fatal("expected error")
	}

	if got := err.Fields(); len(got) != 2 || got[0] != "QuestionID" || got[1] != "QuestionTimeMs" {
		t.Errorf("Fields() = %v, want [QuestionID QuestionTimeMs]", got)
	}

	msg := err.Error()
	if !strings.Contains(msg, "QuestionID is required") {
		t.Errorf("Error() = %q, want required message", msg)
	}
	if !strings.Contains(msg, "QuestionTimeMs must be greater than or equal to 0") {
		t.Errorf("Error() = %q, want gte message", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("Error() = %q, want messages joined with '; '", msg)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q, want 'validation failed'", ve.Error())
	}
}

type prefixList struct {
	Entries []string `validate:"dive,cidr_country"`
}

func TestCIDRCountryValidation(t *testing.T) {
	tests := []struct {
		entry string
		valid bool
	}{
		{"81.2.69.0/24=GB", true},
		{"2a02:c7c::/32=fr", true},
		{" 10.0.0.0/8 = US ", true},
		{"81.2.69.0/24", false},
		{"81.2.69.0=GB", false},
		{"81.2.69.0/24=GBR", false},
		{"81.2.69.0/24=G1", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			err := ValidateStruct(&prefixList{Entries: []string{tt.entry}})
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.entry, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be invalid", tt.entry)
			}
		})
	}
}

type bounded struct {
	Label string  `validate:"min=2,max=4"`
	Count int     `validate:"min=1,max=3"`
	Ratio float64 `validate:"lte=1"`
	Mode  string  `validate:"oneof=fixed adaptive"`
}

func TestErrorMessages(t *testing.T) {
	err := ValidateStruct(&bounded{Label: "x", Count: 9, Ratio: 2, Mode: "other"})
	if err == nil {
		t.Fatal("expected error")
	}

	want := map[string]string{
		"Label": "Label must be at least 2 characters",
		"Count": "Count must be at most 3",
		"Ratio": "Ratio must be less than or equal to 1",
		"Mode":  "Mode must be one of: fixed adaptive",
	}
	for _, fe := range err.Errors() {
		if w, ok := want[fe.Field()]; ok && fe.Error() != w {
			t.Errorf("%s message = %q, want %q", fe.Field(), fe.Error(), w)
		}
	}
	if len(err.Errors()) != len(want) {
		t.Errorf("got %d errors, want %d", len(err.Errors()), len(want))
	}
}
