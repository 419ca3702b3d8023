// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package validation provides struct validation using go-playground/validator v10.
//
// Input records arrive as loosely structured JSON. They are decoded into
// tagged structs and checked here, at the boundary, before any detector
// sees them.
//
// # Overview
//
// The package provides:
//   - A thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages
//   - Filter, which drops malformed records from a batch instead of failing it
//   - The cidr_country custom tag for geo prefix table entries
//
// # Quick Start
//
//	type Response struct {
//	    QuestionID     string `validate:"required"`
//	    QuestionTimeMs int64  `validate:"gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("invalid config: %w", verr)
//	}
//
//	samples = validation.Filter("timing_response", samples)
//
// # Error Handling
//
// ValidateStruct returns *RequestValidationError, not error. Check it for
// nil before converting to error so a nil pointer never becomes a non-nil
// interface.
package validation
