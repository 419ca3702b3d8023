// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package grid

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// point is one response placed on the numeric scale.
type point struct {
	row   int
	value float64
}

// parseNumeric parses a response value as a finite number.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// scalePoints maps responses onto a numeric scale, keeping presentation order.
func scalePoints(responses []Response) []point {
	allNumeric, allColumns := true, true
	for _, r := range responses {
		if _, ok := parseNumeric(r.ResponseValue); !ok {
			allNumeric = false
		}
		if r.ColumnID == nil {
			allColumns = false
		}
	}

	points := make([]point, 0, len(responses))
	for _, r := range responses {
		switch {
		case allNumeric:
			v, _ := parseNumeric(r.ResponseValue)
			points = append(points, point{row: r.RowID, value: v})
		case allColumns:
			points = append(points, point{row: r.RowID, value: float64(*r.ColumnID)})
		default:
			if v, ok := parseNumeric(r.ResponseValue); ok {
				points = append(points, point{row: r.RowID, value: v})
			}
		}
	}
	return points
}

// byRow returns points ordered by row position. Ties keep presentation order.
func byRow(points []point) []point {
	sorted := make([]point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].row < sorted[j].row
	})
	return sorted
}

// answerKey identifies a response's answer for frequency counting. Numeric
// answers compare by value so "3" and "3.0" are the same answer.
func answerKey(r Response) (string, bool) {
	if v, ok := parseNumeric(r.ResponseValue); ok {
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	if s := strings.TrimSpace(r.ResponseValue); s != "" {
		return strings.ToLower(s), true
	}
	if r.ColumnID != nil {
		return "column:" + strconv.Itoa(*r.ColumnID), true
	}
	return "", false
}

// values extracts the numeric values of points.
func values(points []point) []float64 {
	vs := make([]float64, len(points))
	for i, p := range points {
		vs[i] = p.value
	}
	return vs
}
