// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument reports a caller contract violation such as a negative
// count or threshold. Data-quality problems never produce this error.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentf returns an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// RequireNonNegative fails fast when a count supplied by the caller is negative.
func RequireNonNegative(name string, v int) error {
	if v < 0 {
		return InvalidArgumentf("%s must be non-negative, got %d", name, v)
	}
	return nil
}

// Clamp01 bounds v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rule is one entry of an ordered first-match list.
type Rule[T any, R any] struct {
	Name   string
	When   func(T) bool
	Result R
}

// FirstMatch returns the result of the first rule whose predicate holds for in,
// or fallback when none does.
func FirstMatch[T any, R any](rules []Rule[T, R], in T, fallback R) R {
	if r, ok := Match(rules, in); ok {
		return r.Result
	}
	return fallback
}

// Match returns the first rule whose predicate holds for in.
func Match[T any, R any](rules []Rule[T, R], in T) (Rule[T, R], bool) {
	for _, r := range rules {
		if r.When(in) {
			return r, true
		}
	}
	var zero Rule[T, R]
	return zero, false
}
