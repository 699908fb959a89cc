// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "time"

// Refresh cadences per resource family. Summary and map snapshots move
// slowly; alert lists are the operator's live queue.
const (
	SummaryRefreshInterval = 5 * time.Minute
	MapRefreshInterval     = 5 * time.Minute
	AlertsRefreshInterval  = 60 * time.Second
)

// Policy is the scheduling rule for one resource family.
//
// Interval zero means on-demand only: the entry is fetched once per
// distinct key and refetched only on explicit invalidation. Enabled
// gates fetching for lazy keys whose required parameter may be empty
// (a region detail key without a region code must not fetch).
type Policy struct {
	Interval time.Duration
	Enabled  func(Key) bool
}

// allows reports whether fetching is permitted for the key.
func (p Policy) allows(key Key) bool {
	return p.Enabled == nil || p.Enabled(key)
}

// requireParam builds an Enabled predicate demanding a non-empty
// parameter.
func requireParam(name string) func(Key) bool {
	return func(k Key) bool { return k.Param(name) != "" }
}

// DefaultPolicies returns the production refresh policy set.
func DefaultPolicies() map[Family]Policy {
	return map[Family]Policy{
		FamilySummary: {Interval: SummaryRefreshInterval},
		FamilyMap:     {Interval: MapRefreshInterval},
		FamilyAlerts:  {Interval: AlertsRefreshInterval},

		FamilyRegion:       {Enabled: requireParam("code")},
		FamilyRegionRisks:  {Enabled: requireParam("code")},
		FamilyDiseaseRisks: {Enabled: requireParam("type")},
		FamilySignals:      {Enabled: requireParam("code")},
	}
}
