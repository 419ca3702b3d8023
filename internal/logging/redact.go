// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package logging

import (
	"fmt"
	"net/netip"
	"strings"
)

// Respondent identifiers and network addresses are personal data. These
// helpers mask them before they reach a log line.

// RedactIP masks the host part of an address: the last octet of IPv4, the
// last 80 bits of IPv6. Unparseable input is replaced entirely.
// Example: "203.0.113.77" -> "203.0.113.x"
func RedactIP(ip string) string {
	if ip == "" {
		return ""
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return "***"
	}
	addr = addr.Unmap()

	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.x", b[0], b[1], b[2])
	}
	prefix, err := addr.Prefix(48)
	if err != nil {
		return "***"
	}
	return prefix.String()
}

// RedactFingerprint shortens a device fingerprint digest for display.
// Example: "9f86d081884c7d65..." -> "9f86d081..."
func RedactFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:8] + "..."
}

// RedactID masks a respondent identifier, showing only the first and last
// four characters.
// Example: "resp-1234567890" -> "resp...7890"
func RedactID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:4] + "..." + id[len(id)-4:]
}
