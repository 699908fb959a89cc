// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dashboard implements the operator TUI: the global dashboard,
// the region detail view, and alert triage, composed from shared cache
// entries. Views derive their own local state (selection, focus) and
// never mutate the cache directly; all mutations go through the API
// and invalidate the affected cache family.
package dashboard

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitalsigns-project/vitalsigns/services/client"
	"github.com/vitalsigns-project/vitalsigns/services/store"
)

// fetchTimeout bounds a single view-initiated fetch chain.
const fetchTimeout = 30 * time.Second

// Sources binds the API client and the synchronization layer for the
// views. All cache keys used by the TUI are built here so the key
// vocabulary stays in one place.
type Sources struct {
	Client *client.Client
	Store  *store.Store
}

// Cache keys.

func summaryKey() store.Key { return store.NewKey(store.FamilySummary, nil) }

func mapKey(level string) store.Key {
	return store.NewKey(store.FamilyMap, map[string]string{"level": level})
}

func activeAlertsKey(limit string) store.Key {
	return store.NewKey(store.FamilyAlerts, map[string]string{"scope": "active", "limit": limit})
}

func regionKey(code string) store.Key {
	return store.NewKey(store.FamilyRegion, map[string]string{"code": code})
}

func regionRisksKey(code string) store.Key {
	return store.NewKey(store.FamilyRegionRisks, map[string]string{"code": code})
}

func signalsKey(code string) store.Key {
	return store.NewKey(store.FamilySignals, map[string]string{"code": code})
}

// Messages delivered to the views when a cache read settles.

type summaryMsg struct {
	summary *client.RiskSummary
	err     error
}

type mapMsg struct {
	snapshot *client.RiskMapSnapshot
	err      error
}

type alertsMsg struct {
	// limit identifies the requesting view: the dashboard's top list
	// and the triage queue read different keys, and each view must
	// ignore results it did not request.
	limit  int
	alerts *client.AlertList
	err    error
}

type regionMsg struct {
	code   string
	detail *client.RegionDetail
	err    error
}

type regionRisksMsg struct {
	code  string
	risks *client.RegionRisks
	err   error
}

type signalsMsg struct {
	code    string
	signals []client.Signal
	err     error
}

type mutationMsg struct {
	alert *client.Alert
	err   error
}

// pollMsg drives periodic re-reads of the shared cache so background
// refreshes become visible without user input.
type pollMsg struct{}

// fetchSummary reads the global summary through the cache.
func (s *Sources) fetchSummary() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		v, err := s.Store.Get(ctx, summaryKey(), func(ctx context.Context) (any, error) {
			return s.Client.RiskSummary(ctx, client.SummaryFilter{})
		})
		if err != nil {
			return summaryMsg{err: err}
		}
		return summaryMsg{summary: v.(*client.RiskSummary)}
	}
}

// fetchMap reads the map snapshot through the cache.
func (s *Sources) fetchMap(level string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		v, err := s.Store.Get(ctx, mapKey(level), func(ctx context.Context) (any, error) {
			return s.Client.RiskMap(ctx, level)
		})
		if err != nil {
			return mapMsg{err: err}
		}
		return mapMsg{snapshot: v.(*client.RiskMapSnapshot)}
	}
}

// refreshMap invalidates only the map snapshot and refetches it. The
// dashboard's manual refresh deliberately leaves summary and alert
// entries on their own cadence.
func (s *Sources) refreshMap(level string) tea.Cmd {
	s.Store.Invalidate(mapKey(level))
	return s.fetchMap(level)
}

// fetchActiveAlerts reads the top active alerts through the cache.
func (s *Sources) fetchActiveAlerts(limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		key := activeAlertsKey(itoa(limit))
		v, err := s.Store.Get(ctx, key, func(ctx context.Context) (any, error) {
			return s.Client.ActiveAlerts(ctx, "", limit)
		})
		if err != nil {
			return alertsMsg{limit: limit, err: err}
		}
		return alertsMsg{limit: limit, alerts: v.(*client.AlertList)}
	}
}

// fetchRegion reads one region's detail record (lazy key).
func (s *Sources) fetchRegion(code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		v, err := s.Store.Get(ctx, regionKey(code), func(ctx context.Context) (any, error) {
			return s.Client.GetRegion(ctx, code)
		})
		if err != nil {
			return regionMsg{code: code, err: err}
		}
		return regionMsg{code: code, detail: v.(*client.RegionDetail)}
	}
}

// fetchRegionRisks reads one region's risk breakdown (lazy key).
func (s *Sources) fetchRegionRisks(code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		v, err := s.Store.Get(ctx, regionRisksKey(code), func(ctx context.Context) (any, error) {
			return s.Client.RegionRisks(ctx, code)
		})
		if err != nil {
			return regionRisksMsg{code: code, err: err}
		}
		return regionRisksMsg{code: code, risks: v.(*client.RegionRisks)}
	}
}

// fetchSignals reads one region's recent signals (lazy key).
func (s *Sources) fetchSignals(code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		v, err := s.Store.Get(ctx, signalsKey(code), func(ctx context.Context) (any, error) {
			return s.Client.RegionSignals(ctx, code, client.SignalFilter{})
		})
		if err != nil {
			return signalsMsg{code: code, err: err}
		}
		return signalsMsg{code: code, signals: v.([]client.Signal)}
	}
}

// acknowledge runs the acknowledge mutation. On success the alerts
// family is invalidated so every alert list refetches on next read; on
// failure no cache entry is touched and prior state stays visible.
func (s *Sources) acknowledge(id int, notes string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		alert, err := s.Client.AcknowledgeAlert(ctx, id, notes)
		if err != nil {
			return mutationMsg{err: err}
		}
		s.Store.InvalidateFamily(store.FamilyAlerts)
		return mutationMsg{alert: alert}
	}
}

// resolve runs the resolve mutation with the same invalidation rule.
func (s *Sources) resolve(id int, notes string, falsePositive bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		alert, err := s.Client.ResolveAlert(ctx, id, client.ResolveRequest{
			ResolutionNotes:  notes,
			WasFalsePositive: falsePositive,
		})
		if err != nil {
			return mutationMsg{err: err}
		}
		s.Store.InvalidateFamily(store.FamilyAlerts)
		return mutationMsg{alert: alert}
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
