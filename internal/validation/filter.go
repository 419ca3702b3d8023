// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package validation

import (
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/metrics"
)

// Filter returns the records of kind that pass struct validation, in their
// original order. Malformed records are dropped rather than failing the
// batch; each one is logged at debug and counted in the rejection metric.
func Filter[T any](kind string, records []T) []T {
	if len(records) == 0 {
		return records
	}

	valid := make([]T, 0, len(records))
	rejected := 0

	for i := range records {
		if verr := ValidateStruct(&records[i]); verr != nil {
			rejected++
			logging.Debug().
				Str("record", kind).
				Int("index", i).
				Strs("fields", verr.Fields()).
				Str("reason", verr.Error()).
				Msg("dropping malformed record")
			continue
		}
		valid = append(valid, records[i])
	}

	metrics.RecordRejected(kind, rejected)
	return valid
}
