// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/surveyshield/internal/detection"
	"github.com/tomtom215/surveyshield/internal/fingerprint"
	"github.com/tomtom215/surveyshield/internal/geo"
	"github.com/tomtom215/surveyshield/internal/logging"
	"github.com/tomtom215/surveyshield/internal/validation"
)

// Record is one stored session with the data the fraud signals query.
type Record struct {
	Session detection.Session `json:"session"`

	// Samples derive the fingerprint when Fingerprint is empty.
	Samples     []fingerprint.BehaviorSample `json:"samples,omitempty" validate:"dive"`
	Fingerprint string                       `json:"fingerprint,omitempty"`

	// Country is resolved from the session IP when empty.
	Country string                 `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Answers []detection.TextAnswer `json:"answers,omitempty" validate:"dive"`
}

// MemoryStore is an in-memory detection.History. It is safe for concurrent
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []Record
	index    map[string]int
	resolver geo.Resolver
}

var _ detection.History = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. resolver fills in missing record
// countries and may be nil.
func NewMemoryStore(resolver geo.Resolver) *MemoryStore {
	return &MemoryStore{
		index:    make(map[string]int),
		resolver: resolver,
	}
}

// Add stores a record, replacing any record with the same session ID.
func (m *MemoryStore) Add(ctx context.Context, rec Record) error {
	rec.Country = strings.ToUpper(strings.TrimSpace(rec.Country))
	if verr := validation.ValidateStruct(&rec); verr != nil {
		return fmt.Errorf("invalid history record: %w", verr)
	}

	s := rec.Session
	if rec.Fingerprint == "" {
		rec.Fingerprint = s.Fingerprint(rec.Samples)
	}
	if rec.Country == geo.Unknown {
		rec.Country = m.resolve(ctx, s.IPAddress)
	}

	answers := make([]detection.TextAnswer, len(rec.Answers))
	for i, a := range rec.Answers {
		a.SessionID = s.SessionID
		answers[i] = a
	}
	rec.Answers = answers

	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.index[s.SessionID]; ok {
		m.records[i] = rec
		return nil
	}
	m.index[s.SessionID] = len(m.records)
	m.records = append(m.records, rec)
	return nil
}

// AddAll stores every record, stopping at the first invalid one.
func (m *MemoryStore) AddAll(ctx context.Context, recs []Record) error {
	for i, rec := range recs {
		if err := m.Add(ctx, rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStore) resolve(ctx context.Context, ip string) string {
	if m.resolver == nil || ip == "" {
		return geo.Unknown
	}
	country, err := m.resolver.Country(ctx, ip)
	if err != nil {
		logging.CtxDebug(ctx).Err(err).Str("ip", logging.RedactIP(ip)).Msg("history record country unresolved")
		return geo.Unknown
	}
	return country
}

// IPSessionCounts counts stored sessions from ip, in total and created at or
// after dayStart. A stored copy of the session under analysis is included.
func (m *MemoryStore) IPSessionCounts(ctx context.Context, ip string, dayStart time.Time) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	total, today := 0, 0
	for i := range m.records {
		s := &m.records[i].Session
		if s.IPAddress != ip {
			continue
		}
		total++
		if !s.CreatedAt.Before(dayStart) {
			today++
		}
	}
	return total, today, nil
}

// FingerprintSessionCount counts other stored sessions with the fingerprint.
func (m *MemoryStore) FingerprintSessionCount(ctx context.Context, fp, excludeSessionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if fp == "" {
		return 0, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for i := range m.records {
		r := &m.records[i]
		if r.Fingerprint == fp && r.Session.SessionID != excludeSessionID {
			n++
		}
	}
	return n, nil
}

// OtherAnswers returns other sessions' answers to the given questions. An
// empty surveyID matches every survey.
func (m *MemoryStore) OtherAnswers(ctx context.Context, surveyID string, questionIDs []string, excludeSessionID string) ([]detection.TextAnswer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(questionIDs))
	for _, q := range questionIDs {
		wanted[q] = true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []detection.TextAnswer
	for i := range m.records {
		r := &m.records[i]
		if r.Session.SessionID == excludeSessionID {
			continue
		}
		if surveyID != "" && r.Session.SurveyID != surveyID {
			continue
		}
		for _, a := range r.Answers {
			if wanted[a.QuestionID] {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// OtherSessionCountries returns the known countries of other sessions in the
// same context.
func (m *MemoryStore) OtherSessionCountries(ctx context.Context, s detection.Session) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for i := range m.records {
		r := &m.records[i]
		if r.Session.SessionID == s.SessionID || r.Country == geo.Unknown {
			continue
		}
		if sameContext(s, r.Session) {
			out = append(out, r.Country)
		}
	}
	return out, nil
}

// ResponseTimestamps returns creation times at or after since of sessions in
// the same context, including a stored copy of s itself.
func (m *MemoryStore) ResponseTimestamps(ctx context.Context, s detection.Session, since time.Time) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []time.Time
	for i := range m.records {
		r := &m.records[i].Session
		if r.CreatedAt.Before(since) {
			continue
		}
		if r.SessionID == s.SessionID || sameContext(s, *r) {
			out = append(out, r.CreatedAt)
		}
	}
	return out, nil
}

// sameContext reports whether two sessions share a respondent. An anonymous
// session shares context with sessions from the same IP in the same survey,
// so unrelated anonymous respondents never count against each other. An
// anonymous session without both a survey and an IP has no context.
func sameContext(s, other detection.Session) bool {
	switch {
	case s.RespondentID != "":
		return other.RespondentID == s.RespondentID
	case s.SurveyID != "" && s.IPAddress != "":
		return other.SurveyID == s.SurveyID && other.IPAddress == s.IPAddress
	default:
		return false
	}
}
