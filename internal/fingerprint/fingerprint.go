// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package fingerprint derives a stable device fingerprint for a session from
// its user agent, display geometry and platform.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Delimiter separates the fingerprint fields before hashing.
const Delimiter = "|"

// BehaviorSample is the display descriptor attached to a behavior event.
// Any field may be absent.
type BehaviorSample struct {
	ScreenWidth    *int `json:"screen_width,omitempty" validate:"omitempty,gte=0"`
	ScreenHeight   *int `json:"screen_height,omitempty" validate:"omitempty,gte=0"`
	ViewportWidth  *int `json:"viewport_width,omitempty" validate:"omitempty,gte=0"`
	ViewportHeight *int `json:"viewport_height,omitempty" validate:"omitempty,gte=0"`
}

// Fields returns the six ordered fingerprint components: user agent, screen
// width, screen height, viewport width, viewport height and platform ID.
// Each geometry field takes the first non-nil value across samples; missing
// components are empty strings.
func Fields(userAgent, platformID string, samples []BehaviorSample) [6]string {
	var sw, sh, vw, vh *int
	for _, s := range samples {
		if sw == nil {
			sw = s.ScreenWidth
		}
		if sh == nil {
			sh = s.ScreenHeight
		}
		if vw == nil {
			vw = s.ViewportWidth
		}
		if vh == nil {
			vh = s.ViewportHeight
		}
		if sw != nil && sh != nil && vw != nil && vh != nil {
			break
		}
	}

	return [6]string{userAgent, itoa(sw), itoa(sh), itoa(vw), itoa(vh), platformID}
}

// Generate returns the SHA-256 hex digest of the delimited fingerprint fields.
func Generate(userAgent, platformID string, samples []BehaviorSample) string {
	f := Fields(userAgent, platformID, samples)
	sum := sha256.Sum256([]byte(strings.Join(f[:], Delimiter)))
	return hex.EncodeToString(sum[:])
}

func itoa(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
