// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package validation

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/surveyshield/internal/metrics"
)

func TestFilter_DropsMalformed(t *testing.T) {
	before := testutil.ToFloat64(metrics.RecordsRejected.WithLabelValues("timed_answer_test"))

	in := []timedAnswer{
		{QuestionID: "q1", QuestionTimeMs: 1200},
		{QuestionID: "", QuestionTimeMs: 800},
		{QuestionID: "q3", QuestionTimeMs: -4},
		{QuestionID: "q4", QuestionTimeMs: 0},
	}

	got := Filter("timed_answer_test", in)

	if len(got) != 2 {
		t.Fatalf("len(Filter) = %d, want 2", len(got))
	}
	if got[0].QuestionID != "q1" || got[1].QuestionID != "q4" {
		t.Errorf("Filter kept %v, want q1 and q4 in order", got)
	}

	after := testutil.ToFloat64(metrics.RecordsRejected.WithLabelValues("timed_answer_test"))
	if after-before != 2 {
		t.Errorf("rejected delta = %v, want 2", after-before)
	}
}

func TestFilter_EmptyAndAllValid(t *testing.T) {
	if got := Filter[timedAnswer]("timed_answer_test", nil); len(got) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", got)
	}

	in := []timedAnswer{{QuestionID: "a"}, {QuestionID: "b", QuestionTimeMs: 5}}
	if got := Filter("timed_answer_test", in); len(got) != 2 {
		t.Errorf("len(Filter) = %d, want 2", len(got))
	}
}
