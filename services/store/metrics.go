// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the synchronization layer. Register against a
// dedicated registry in tests to avoid collisions.
type Metrics struct {
	FetchTotal        *prometheus.CounterVec
	HitTotal          *prometheus.CounterVec
	DedupTotal        prometheus.Counter
	DiscardTotal      prometheus.Counter
	InvalidationTotal *prometheus.CounterVec
	RetryExhausted    prometheus.Counter
	Entries           prometheus.Gauge
}

// NewMetrics creates and registers store metrics. reg may be
// prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_store_fetch_total",
			Help: "Completed fetches by resource family and outcome.",
		}, []string{"family", "outcome"}),
		HitTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_store_hit_total",
			Help: "Reads served from a fresh cache entry.",
		}, []string{"family"}),
		DedupTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitals_store_dedup_total",
			Help: "Concurrent reads collapsed into an in-flight fetch.",
		}),
		DiscardTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitals_store_discard_total",
			Help: "Fetch results discarded because a newer request for the same key already resolved.",
		}),
		InvalidationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vitals_store_invalidation_total",
			Help: "Cache entries marked stale, by family.",
		}, []string{"family"}),
		RetryExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vitals_store_retry_exhausted_total",
			Help: "Fetches that failed after exhausting the retry budget.",
		}),
		Entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vitals_store_entries",
			Help: "Live cache entries.",
		}),
	}
}

// NopMetrics returns metrics bound to a throwaway registry.
func NopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
