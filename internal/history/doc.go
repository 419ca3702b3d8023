// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package history provides an in-memory population store that answers the
// fraud engine's context queries.
//
// A session's context is its respondent when it has one, otherwise its
// survey. Geolocation and velocity look only within that context; IP and
// fingerprint counts span the whole store.
//
// Usage:
//
//	store := history.NewMemoryStore(resolver)
//	if err := store.AddAll(ctx, records); err != nil {
//	    return err
//	}
//	engine, err := detection.NewEngine(store, resolver)
package history
