// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"net/url"
	"sort"
	"strings"
)

// Family groups cache keys that share a resource type and refresh
// policy. Invalidation after a mutation targets a whole family.
type Family string

const (
	// FamilySummary holds global risk summary snapshots.
	FamilySummary Family = "summary"

	// FamilyMap holds map snapshot payloads.
	FamilyMap Family = "map"

	// FamilyAlerts holds alert lists. Every key in this family is
	// invalidated by a successful acknowledge or resolve.
	FamilyAlerts Family = "alerts"

	// FamilyRegion holds single-region detail records (lazy).
	FamilyRegion Family = "region"

	// FamilyRegionRisks holds per-region risk breakdowns (lazy).
	FamilyRegionRisks Family = "region-risks"

	// FamilyDiseaseRisks holds disease-specific risk lists (lazy).
	FamilyDiseaseRisks Family = "disease-risks"

	// FamilySignals holds signal series (lazy).
	FamilySignals Family = "signals"
)

// Key identifies one cache entry: a family plus its filter parameters
// in canonical order. Two Keys built from equivalent filter sets are
// identical regardless of parameter insertion order, and empty-valued
// parameters never contribute (an absent filter and an empty filter
// are the same key).
type Key struct {
	family    Family
	params    map[string]string
	canonical string
}

// NewKey builds a Key for the family and filter parameters. params may
// be nil for unparameterized keys.
func NewKey(family Family, params map[string]string) Key {
	clean := make(map[string]string, len(params))
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		clean[name] = value
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(string(family))
	for i, name := range names {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(clean[name]))
	}

	return Key{family: family, params: clean, canonical: b.String()}
}

// Family returns the key's resource family.
func (k Key) Family() Family { return k.family }

// Param returns the named filter parameter, or "" when absent.
func (k Key) Param(name string) string { return k.params[name] }

// String returns the canonical identifier used for deduplication and
// map storage.
func (k Key) String() string { return k.canonical }
