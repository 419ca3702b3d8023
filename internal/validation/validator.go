// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package validation

import (
	"errors"
	"fmt"
	"net/netip"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is one field that failed one constraint.
type ValidationError struct {
	field   string
	tag     string
	message string
}

// Field returns the Go struct field name that failed validation.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string { return e.tag }

// Error returns a human-readable error message.
func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed constraint of one record.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error joins the failure messages with "; ".
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.errors))
	for i := range ve.errors {
		msgs[i] = ve.errors[i].message
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the names of the fields that failed, in order.
func (ve *RequestValidationError) Fields() []string {
	fields := make([]string, len(ve.errors))
	for i := range ve.errors {
		fields[i] = ve.errors[i].field
	}
	return fields
}

// GetValidator returns the shared validator with the custom tags registered.
// It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("cidr_country", validateCIDRCountry)
	})
	return validate
}

// validateCIDRCountry checks a "CIDR=CC" geo prefix entry.
func validateCIDRCountry(fl validator.FieldLevel) bool {
	cidr, cc, ok := strings.Cut(fl.Field().String(), "=")
	if !ok {
		return false
	}
	if _, err := netip.ParsePrefix(strings.TrimSpace(cidr)); err != nil {
		return false
	}
	cc = strings.TrimSpace(cc)
	if len(cc) != 2 {
		return false
	}
	for _, r := range cc {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ValidateStruct validates s against its validate tags and returns nil or
// the collected failures.
//
// Callers that return the result as an error must check for nil first; a nil
// *RequestValidationError stored in an error interface is not a nil error.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{
			{field: "unknown", tag: "unknown", message: err.Error()},
		}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// messages renders a failed tag from the field name and tag parameter.
var messages = map[string]func(field, param string) string{
	"required":         func(f, _ string) string { return f + " is required" },
	"required_without": func(f, p string) string { return fmt.Sprintf("%s is required when %s is missing", f, p) },
	"ip":               func(f, _ string) string { return f + " must be a valid IP address" },
	"iso3166_1_alpha2": func(f, _ string) string { return f + " must be an ISO 3166-1 alpha-2 country code" },
	"cidr_country":     func(f, _ string) string { return f + " must be a CIDR=CC prefix entry" },
	"oneof":            func(f, p string) string { return fmt.Sprintf("%s must be one of: %s", f, p) },
	"gte":              func(f, p string) string { return fmt.Sprintf("%s must be greater than or equal to %s", f, p) },
	"lte":              func(f, p string) string { return fmt.Sprintf("%s must be less than or equal to %s", f, p) },
	"gt":               func(f, p string) string { return fmt.Sprintf("%s must be greater than %s", f, p) },
	"lt":               func(f, p string) string { return fmt.Sprintf("%s must be less than %s", f, p) },
	"len":              func(f, p string) string { return fmt.Sprintf("%s must have length %s", f, p) },
}

// bounds words min and max; string lengths count characters.
var bounds = map[string]string{"min": "at least", "max": "at most"}

func message(fe validator.FieldError) string {
	if render, ok := messages[fe.Tag()]; ok {
		return render(fe.Field(), fe.Param())
	}
	if word, ok := bounds[fe.Tag()]; ok {
		unit := ""
		if fe.Kind() == reflect.String {
			unit = " characters"
		}
		return fmt.Sprintf("%s must be %s %s%s", fe.Field(), word, fe.Param(), unit)
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
