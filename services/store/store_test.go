// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// testStore builds a store with fast retries and a fake clock.
func testStore(t *testing.T, clock Clock) *Store {
	t.Helper()
	s := New(
		WithClock(clock),
		WithRetry(RetryConfig{InitialInterval: time.Millisecond, MaxTries: 3}),
	)
	t.Cleanup(s.Close)
	return s
}

func TestNewKey_CanonicalOrdering(t *testing.T) {
	a := NewKey(FamilyAlerts, map[string]string{"severity": "urgent", "status": "active"})
	b := NewKey(FamilyAlerts, map[string]string{"status": "active", "severity": "urgent"})
	assert.Equal(t, a.String(), b.String(), "equivalent filter sets must hash identically")
	assert.Equal(t, "alerts?severity=urgent&status=active", a.String())
}

func TestNewKey_EmptyParamsDropped(t *testing.T) {
	a := NewKey(FamilySummary, map[string]string{"continent": "", "level": "country"})
	b := NewKey(FamilySummary, map[string]string{"level": "country"})
	assert.Equal(t, a.String(), b.String(), "absent and empty filters are the same key")

	bare := NewKey(FamilySummary, nil)
	assert.Equal(t, "summary", bare.String())
}

func TestKeyInFamily_PrefixBoundary(t *testing.T) {
	assert.True(t, keyInFamily("alerts", "alerts"))
	assert.True(t, keyInFamily("alerts?status=active", "alerts"))
	assert.False(t, keyInFamily("region-risks?code=SSD", "region"),
		"family prefix must not bleed into longer family names")
}

func TestStore_Get_CachesValue(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilySummary, nil)

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "summary-v1", nil
	}

	for i := 0; i < 3; i++ {
		v, err := s.Get(context.Background(), key, fetch)
		require.NoError(t, err)
		assert.Equal(t, "summary-v1", v)
	}
	assert.Equal(t, int64(1), calls.Load(), "repeat reads must hit the cache")
}

func TestStore_Get_DeduplicatesConcurrentFetches(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyMap, map[string]string{"level": "country"})

	var calls atomic.Int64
	gate := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-gate
		return "map-snapshot", nil
	}

	const readers = 8
	results := make([]any, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.Get(context.Background(), key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the readers queue up on the single flight, then release it.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent reads must collapse to one call")
	for _, v := range results {
		assert.Equal(t, "map-snapshot", v, "all callers observe the same resolved value")
	}
}

func TestStore_InvalidateFamily_ForcesRefetchAcrossFilters(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))

	keys := []Key{
		NewKey(FamilyAlerts, nil),
		NewKey(FamilyAlerts, map[string]string{"status": "active"}),
		NewKey(FamilyAlerts, map[string]string{"severity": "critical", "limit": "5"}),
	}
	other := NewKey(FamilySummary, nil)

	counts := make(map[string]*atomic.Int64)
	fetchFor := func(key Key) FetchFunc {
		c := &atomic.Int64{}
		counts[key.String()] = c
		return func(ctx context.Context) (any, error) {
			return fmt.Sprintf("v%d", c.Add(1)), nil
		}
	}

	fetches := make(map[string]FetchFunc)
	for _, key := range append(keys, other) {
		fetches[key.String()] = fetchFor(key)
	}
	for _, key := range append(keys, other) {
		_, err := s.Get(context.Background(), key, fetches[key.String()])
		require.NoError(t, err)
	}

	s.InvalidateFamily(FamilyAlerts)

	for _, key := range keys {
		v, err := s.Get(context.Background(), key, fetches[key.String()])
		require.NoError(t, err)
		assert.Equal(t, "v2", v, "alert key %s must refetch after invalidation", key)
	}

	v, err := s.Get(context.Background(), other, fetches[other.String()])
	require.NoError(t, err)
	assert.Equal(t, "v1", v, "entries outside the alerts family must be untouched")
}

func TestStore_GenerationOrdering_LastIssuedWins(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyAlerts, nil)

	releaseA := make(chan struct{})
	fetchA := func(ctx context.Context) (any, error) {
		<-releaseA
		return "A", nil
	}
	fetchB := func(ctx context.Context) (any, error) {
		return "B", nil
	}

	// Issue A and let it hang in flight.
	aDone := make(chan any, 1)
	go func() {
		v, _ := s.Get(context.Background(), key, fetchA)
		aDone <- v
	}()

	// Wait until A's flight is actually issued.
	require.Eventually(t, func() bool {
		snap, ok := s.Lookup(key)
		return ok && snap.State == StateLoading
	}, time.Second, time.Millisecond)

	// Invalidate so B starts a fresh flight, then resolve B first.
	s.Invalidate(key)
	v, err := s.Get(context.Background(), key, fetchB)
	require.NoError(t, err)
	assert.Equal(t, "B", v)

	// Now let the older request resolve: its result must be discarded.
	close(releaseA)
	select {
	case got := <-aDone:
		assert.Equal(t, "B", got, "caller of the stale flight observes the applied value")
	case <-time.After(time.Second):
		t.Fatal("stale flight never returned")
	}

	snap, ok := s.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "B", snap.Value, "cache must end in B's value, never A's")
}

func TestStore_FailureKeepsLastGoodValue(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilySummary, nil)

	healthy := func(ctx context.Context) (any, error) { return "good", nil }
	_, err := s.Get(context.Background(), key, healthy)
	require.NoError(t, err)

	s.Invalidate(key)
	broken := func(ctx context.Context) (any, error) {
		return nil, fmt.Errorf("%w: detail", client.ErrServer)
	}
	_, err = s.Get(context.Background(), key, broken)
	require.Error(t, err)

	snap, ok := s.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, StateFailed, snap.State)
	assert.Error(t, snap.Err)
	assert.Equal(t, "good", snap.Value, "last good value survives a failed refresh")
}

func TestStore_RetriesTransientErrors(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyMap, nil)

	var calls atomic.Int64
	flaky := func(ctx context.Context) (any, error) {
		if calls.Add(1) < 3 {
			return nil, fmt.Errorf("%w: status 503", client.ErrServer)
		}
		return "recovered", nil
	}

	v, err := s.Get(context.Background(), key, flaky)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int64(3), calls.Load())
}

func TestStore_TerminalErrorsNotRetried(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyRegion, map[string]string{"code": "XX"})

	var calls atomic.Int64
	missing := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, fmt.Errorf("%w: Region 'XX' not found", client.ErrNotFound)
	}

	_, err := s.Get(context.Background(), key, missing)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, int64(1), calls.Load(), "not-found is terminal, never retried")
}

func TestStore_LazyKeyDisabledWithoutParam(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyRegion, map[string]string{"code": ""})

	_, err := s.Get(context.Background(), key, func(ctx context.Context) (any, error) {
		t.Fatal("fetch must not run for a disabled key")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStore_Subscribe_PollsOnCadence(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := testStore(t, clock)
	key := NewKey(FamilyAlerts, map[string]string{"status": "active"})

	var calls atomic.Int64
	fetched := make(chan struct{}, 16)
	fetch := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		fetched <- struct{}{}
		return fmt.Sprintf("alerts-v%d", n), nil
	}

	release := s.Subscribe(key, fetch)
	defer release()

	_, err := s.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	<-fetched

	// The poll loop must be parked on the clock before each advance.
	for cycle := 1; cycle <= 2; cycle++ {
		require.Eventually(t, func() bool { return clock.WaiterCount() == 1 },
			time.Second, time.Millisecond)
		clock.Advance(AlertsRefreshInterval)
		select {
		case <-fetched:
		case <-time.After(time.Second):
			t.Fatalf("poll cycle %d never fetched", cycle)
		}
	}

	snap, ok := s.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "alerts-v3", snap.Value)
}

func TestStore_Release_StopsPollingAndCollectsEntry(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	s := testStore(t, clock)
	key := NewKey(FamilySummary, nil)

	fetch := func(ctx context.Context) (any, error) { return "s", nil }

	release := s.Subscribe(key, fetch)
	_, err := s.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return clock.WaiterCount() == 1 },
		time.Second, time.Millisecond)

	release()
	release() // further calls are no-ops

	_, ok := s.Lookup(key)
	assert.False(t, ok, "entry must be garbage-collected at refcount zero")
}

func TestStore_Subscribe_SecondSubscriberKeepsEntryAlive(t *testing.T) {
	s := testStore(t, NewFakeClock(time.Unix(0, 0)))
	key := NewKey(FamilyMap, nil)
	fetch := func(ctx context.Context) (any, error) { return "m", nil }

	first := s.Subscribe(key, fetch)
	second := s.Subscribe(key, fetch)

	_, err := s.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	first()
	_, ok := s.Lookup(key)
	assert.True(t, ok, "entry must survive while another view references it")

	second()
	_, ok = s.Lookup(key)
	assert.False(t, ok)
}

func TestStore_Close_RejectsReads(t *testing.T) {
	s := New(WithClock(NewFakeClock(time.Unix(0, 0))))
	s.Close()

	_, err := s.Get(context.Background(), NewKey(FamilySummary, nil),
		func(ctx context.Context) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrClosed)
}
