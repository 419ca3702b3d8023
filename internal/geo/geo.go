// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

// Package geo resolves IP addresses to ISO country codes on a best-effort
// basis. Private, loopback, link-local and unparseable addresses always
// resolve to the unknown country (""), and unknown is never a risk signal.
package geo

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/surveyshield/internal/cache"
)

// Unknown is the country code returned when an address cannot be resolved.
const Unknown = ""

// Resolver maps an IP address to an ISO 3166-1 alpha-2 country code.
// Implementations return Unknown rather than an error for addresses they
// simply do not know.
type Resolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

// Routable parses ip and reports whether it is a public address worth
// resolving.
func Routable(ip string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return netip.Addr{}, false
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() || addr.IsMulticast() {
		return netip.Addr{}, false
	}
	return addr, true
}

// prefixEntry is one CIDR to country mapping.
type prefixEntry struct {
	prefix  netip.Prefix
	country string
}

// PrefixTable resolves addresses by longest-prefix match against a static
// table of CIDR blocks.
type PrefixTable struct {
	entries []prefixEntry
}

// NewPrefixTable builds a table from "CIDR=CC" entries.
func NewPrefixTable(entries []string) (*PrefixTable, error) {
	t := &PrefixTable{entries: make([]prefixEntry, 0, len(entries))}

	for _, raw := range entries {
		cidr, cc, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid prefix entry %q: expected CIDR=CC", raw)
		}
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("invalid prefix entry %q: %w", raw, err)
		}
		cc = strings.ToUpper(strings.TrimSpace(cc))
		if len(cc) != 2 {
			return nil, fmt.Errorf("invalid prefix entry %q: country code must be two letters", raw)
		}
		t.entries = append(t.entries, prefixEntry{prefix: prefix.Masked(), country: cc})
	}

	// Longest prefix first so the first containing entry is the best match.
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].prefix.Bits() > t.entries[j].prefix.Bits()
	})

	return t, nil
}

// Len returns the number of prefixes in the table.
func (t *PrefixTable) Len() int {
	return len(t.entries)
}

// Country implements Resolver.
func (t *PrefixTable) Country(_ context.Context, ip string) (string, error) {
	addr, ok := Routable(ip)
	if !ok {
		return Unknown, nil
	}
	for _, e := range t.entries {
		if e.prefix.Contains(addr) {
			return e.country, nil
		}
	}
	return Unknown, nil
}

// CachedResolver memoizes another Resolver's answers in a TTL cache.
type CachedResolver struct {
	next  Resolver
	cache *cache.TTL[string]
}

// NewCachedResolver wraps next with c. Lookups that fail are not cached, and
// unknown answers are kept for a tenth of the cache TTL so a table update is
// picked up sooner.
func NewCachedResolver(next Resolver, c *cache.TTL[string]) *CachedResolver {
	return &CachedResolver{next: next, cache: c}
}

// NewCachedResolverTTL wraps next with a fresh cache of the given TTL.
func NewCachedResolverTTL(next Resolver, ttl time.Duration) *CachedResolver {
	return NewCachedResolver(next, cache.New[string](ttl))
}

// Country implements Resolver.
func (r *CachedResolver) Country(ctx context.Context, ip string) (string, error) {
	addr, ok := Routable(ip)
	if !ok {
		return Unknown, nil
	}
	key := addr.String()

	if cc, hit := r.cache.Get(key); hit {
		return cc, nil
	}

	cc, err := r.next.Country(ctx, key)
	if err != nil {
		return Unknown, err
	}
	if cc == Unknown {
		r.cache.SetWithTTL(key, cc, r.cache.TTL()/10)
	} else {
		r.cache.Set(key, cc)
	}
	return cc, nil
}

// Stats exposes the underlying cache statistics.
func (r *CachedResolver) Stats() cache.Stats {
	return r.cache.GetStats()
}
