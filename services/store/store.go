// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store is the risk data synchronization layer.
//
// # Description
//
// The store owns a keyed set of cache entries shared by every view.
// Each entry carries the fetched value, an error state, a generation
// counter, and a reference count. Resource families refresh on fixed
// cadences (see policy.go); lazy families fetch once per distinct key
// and refetch only after invalidation.
//
// Behavioral contract:
//
//   - Deduplication: concurrent reads of the same key collapse into a
//     single network call; every caller observes the same result.
//   - Generation ordering: for one key, the last-issued request that
//     resolves wins. A slow response from an older request is
//     discarded once a newer one has been applied.
//   - Staleness while fetching: the previous value stays visible while
//     a refresh is in flight, and is retained when the refresh fails.
//   - Invalidation: a successful alert mutation invalidates the whole
//     alerts family, whatever filters produced the entries.
//   - Lifecycle: entries are created on first reference and dropped
//     when the reference count reaches zero.
//
// Transient fetch failures retry with exponential backoff (bounded);
// not-found, bad-request, and shape errors are terminal for the fetch.
//
// # Thread Safety
//
// Store is safe for concurrent use. All entry mutation happens under
// one mutex, and result application is atomic with the generation
// check, so a stale in-flight response can never overwrite a newer one.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"

	"github.com/vitalsigns-project/vitalsigns/pkg/logging"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// FetchFunc loads the value for one cache key.
type FetchFunc func(ctx context.Context) (any, error)

// State describes an entry's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is a consumer-visible view of one cache entry. Value holds
// the last good payload even when State is StateFailed.
type Snapshot struct {
	Value     any
	Err       error
	State     State
	Stale     bool
	FetchedAt time.Time
}

// entry is the internal cache record for one key.
type entry struct {
	value     any
	err       error
	state     State
	stale     bool
	fetchedAt time.Time

	// issued counts requests started for this key; applied records the
	// generation of the newest result accepted into the entry.
	issued  uint64
	applied uint64

	refs     int
	fetch    FetchFunc
	pollStop chan struct{}
}

// RetryConfig bounds the backoff policy for transient fetch failures.
type RetryConfig struct {
	InitialInterval time.Duration
	MaxTries        uint
}

// DefaultRetryConfig returns the production retry bounds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxTries:        3,
	}
}

// refreshTimeout bounds one background refresh attempt chain.
const refreshTimeout = 30 * time.Second

// Store is the shared cache for all consuming views.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	group    singleflight.Group
	clock    Clock
	logger   *logging.Logger
	metrics  *Metrics
	policies map[Family]Policy
	retry    RetryConfig
}

// Option customizes a Store.
type Option func(*Store)

// WithClock injects a Clock (tests use FakeClock).
func WithClock(clock Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics attaches instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Store) { s.metrics = metrics }
}

// WithPolicies overrides the refresh policy table.
func WithPolicies(policies map[Family]Policy) Option {
	return func(s *Store) { s.policies = policies }
}

// WithRetry overrides the retry bounds.
func WithRetry(retry RetryConfig) Option {
	return func(s *Store) { s.retry = retry }
}

// New creates a Store with production defaults.
func New(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*entry),
		clock:    SystemClock{},
		logger:   logging.Default(),
		metrics:  NopMetrics(),
		policies: DefaultPolicies(),
		retry:    DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// policyFor returns the family's policy, zero Policy when unknown.
func (s *Store) policyFor(family Family) Policy {
	return s.policies[family]
}

// ensureLocked returns the entry for key, creating it if absent.
// Caller holds s.mu.
func (s *Store) ensureLocked(key Key) *entry {
	e, ok := s.entries[key.String()]
	if !ok {
		e = &entry{state: StateIdle}
		s.entries[key.String()] = e
		s.metrics.Entries.Set(float64(len(s.entries)))
	}
	return e
}

// Get returns the cached value for key, fetching when the entry is
// absent or stale. Concurrent calls for the same key share one fetch.
func (s *Store) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	pol := s.policyFor(key.Family())
	if !pol.allows(key) {
		return nil, ErrDisabled
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e := s.ensureLocked(key)
	if e.state == StateReady && !e.stale {
		value := e.value
		s.mu.Unlock()
		s.metrics.HitTotal.WithLabelValues(string(key.Family())).Inc()
		return value, nil
	}
	s.mu.Unlock()

	value, err, shared := s.group.Do(key.String(), func() (any, error) {
		return s.fetchAndApply(ctx, key, fetch)
	})
	if shared {
		s.metrics.DedupTotal.Inc()
	}
	return value, err
}

// fetchAndApply runs one deduplicated fetch: stamp a generation, fetch
// with bounded retry, then apply the result under the generation check.
func (s *Store) fetchAndApply(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key.String()]
	if !ok {
		// Entry released while queued; fetch anyway but cache nothing.
		s.mu.Unlock()
		return fetch(ctx)
	}
	e.issued++
	generation := e.issued
	if e.state == StateIdle {
		e.state = StateLoading
	}
	s.mu.Unlock()

	value, err := s.fetchWithRetry(ctx, key, fetch)
	return s.apply(key, generation, value, err)
}

// apply installs a fetch result unless a newer generation already
// resolved, in which case the result is discarded and the entry's
// current state is returned instead. The generation comparison and the
// write happen under one lock acquisition.
func (s *Store) apply(key Key, generation uint64, value any, fetchErr error) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return value, fetchErr
	}

	if generation <= e.applied {
		s.metrics.DiscardTotal.Inc()
		s.logger.Debug("stale fetch result discarded",
			"key", key.String(), "generation", generation, "applied", e.applied)
		if e.err != nil {
			return e.value, e.err
		}
		return e.value, nil
	}
	e.applied = generation

	family := string(key.Family())
	if fetchErr != nil {
		// Keep the last good value visible; only the error state changes.
		e.err = fetchErr
		e.state = StateFailed
		s.metrics.FetchTotal.WithLabelValues(family, "error").Inc()
		s.logger.Warn("fetch failed", "key", key.String(), "error", fetchErr)
		return e.value, fetchErr
	}

	e.value = value
	e.err = nil
	e.stale = false
	e.state = StateReady
	e.fetchedAt = s.clock.Now()
	s.metrics.FetchTotal.WithLabelValues(family, "ok").Inc()
	return value, nil
}

// fetchWithRetry wraps the fetch in the bounded backoff policy.
// Terminal failures (not found, bad request, shape mismatch, invalid
// input, cancellation) are not retried.
func (s *Store) fetchWithRetry(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	operation := func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			if isTerminal(err) {
				return nil, backoff.Permanent(err)
			}
			s.logger.Debug("transient fetch failure, retrying",
				"key", key.String(), "error", err)
			return nil, err
		}
		return value, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retry.InitialInterval

	value, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.retry.MaxTries))
	if err != nil && !isTerminal(err) {
		s.metrics.RetryExhausted.Inc()
	}
	return value, err
}

// isTerminal reports whether the error must not be retried.
func isTerminal(err error) bool {
	return errors.Is(err, client.ErrNotFound) ||
		errors.Is(err, client.ErrBadRequest) ||
		errors.Is(err, client.ErrDecode) ||
		errors.Is(err, client.ErrInvalidInput) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Lookup returns the entry's current snapshot without fetching.
func (s *Store) Lookup(key Key) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Value:     e.value,
		Err:       e.err,
		State:     e.state,
		Stale:     e.stale,
		FetchedAt: e.fetchedAt,
	}, true
}

// Subscribe registers a view's interest in a key. While at least one
// subscriber holds the key, polled families refresh on their cadence.
// The returned release function drops the reference; the final release
// stops polling and garbage-collects the entry.
func (s *Store) Subscribe(key Key, fetch FetchFunc) (release func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	e := s.ensureLocked(key)
	e.refs++
	e.fetch = fetch

	pol := s.policyFor(key.Family())
	if pol.Interval > 0 && pol.allows(key) && e.pollStop == nil {
		stop := make(chan struct{})
		e.pollStop = stop
		go s.pollLoop(key, pol.Interval, stop)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.release(key) })
	}
}

// release drops one reference and garbage-collects at zero.
func (s *Store) release(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	if e.pollStop != nil {
		close(e.pollStop)
		e.pollStop = nil
	}
	delete(s.entries, key.String())
	s.metrics.Entries.Set(float64(len(s.entries)))
}

// pollLoop refreshes a key on its family cadence until stopped. An
// abandoned in-flight refresh is not canceled; its result is simply
// subject to the usual generation check.
func (s *Store) pollLoop(key Key, interval time.Duration, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-s.clock.After(interval):
			s.refresh(key)
		}
	}
}

// refresh marks the entry stale and refetches it, keeping the previous
// value visible until the new one applies.
func (s *Store) refresh(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key.String()]
	if !ok || e.fetch == nil {
		s.mu.Unlock()
		return
	}
	fetch := e.fetch
	e.stale = true
	s.mu.Unlock()

	s.group.Forget(key.String())

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if _, err := s.Get(ctx, key, fetch); err != nil {
		s.logger.Debug("background refresh failed", "key", key.String(), "error", err)
	}
}

// Invalidate marks one key stale so the next read refetches.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	e, ok := s.entries[key.String()]
	if ok {
		e.stale = true
	}
	s.mu.Unlock()

	if ok {
		s.group.Forget(key.String())
		s.metrics.InvalidationTotal.WithLabelValues(string(key.Family())).Inc()
	}
}

// InvalidateFamily marks every key in the family stale, whatever
// filters produced the entries. Called after successful alert
// mutations with FamilyAlerts; entries outside the family are
// untouched.
func (s *Store) InvalidateFamily(family Family) {
	prefix := string(family)

	s.mu.Lock()
	var stale []string
	for canonical, e := range s.entries {
		if !keyInFamily(canonical, prefix) {
			continue
		}
		e.stale = true
		stale = append(stale, canonical)
	}
	s.mu.Unlock()

	for _, canonical := range stale {
		s.group.Forget(canonical)
	}
	s.metrics.InvalidationTotal.WithLabelValues(prefix).Add(float64(len(stale)))
	s.logger.Debug("family invalidated", "family", prefix, "entries", len(stale))
}

// keyInFamily matches a canonical key against a family prefix. The
// canonical form is "family" or "family?params", so a prefix match
// must stop at the separator to keep "region" from matching
// "region-risks".
func keyInFamily(canonical, family string) bool {
	if canonical == family {
		return true
	}
	return len(canonical) > len(family) &&
		canonical[:len(family)] == family &&
		canonical[len(family)] == '?'
}

// Close stops all polling and rejects further reads.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, e := range s.entries {
		if e.pollStop != nil {
			close(e.pollStop)
			e.pollStop = nil
		}
	}
}
