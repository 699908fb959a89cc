// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"testing"
	"time"
)

// TestFakeClock_AdvanceFiresDueWaiters verifies waiters fire exactly
// when the advanced time reaches their deadline.
func TestFakeClock_AdvanceFiresDueWaiters(t *testing.T) {
	clock := NewFakeClock(time.Unix(1000, 0))

	short := clock.After(10 * time.Second)
	long := clock.After(60 * time.Second)

	clock.Advance(10 * time.Second)
	select {
	case <-short:
	default:
		t.Fatal("waiter at its deadline must fire")
	}
	select {
	case <-long:
		t.Fatal("waiter past the advanced time must not fire")
	default:
	}

	clock.Advance(50 * time.Second)
	select {
	case <-long:
	default:
		t.Fatal("waiter must fire once its deadline passes")
	}
}

// TestFakeClock_ZeroDurationFiresImmediately covers the degenerate
// After(0) case used when a policy interval is misconfigured.
func TestFakeClock_ZeroDurationFiresImmediately(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) must deliver immediately")
	}
}

// TestFakeClock_NowTracksAdvance verifies Now moves only via Advance.
func TestFakeClock_NowTracksAdvance(t *testing.T) {
	start := time.Unix(5000, 0)
	clock := NewFakeClock(start)

	if !clock.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", clock.Now(), start)
	}
	clock.Advance(90 * time.Second)
	want := start.Add(90 * time.Second)
	if !clock.Now().Equal(want) {
		t.Fatalf("Now() after advance = %v, want %v", clock.Now(), want)
	}
	if clock.WaiterCount() != 0 {
		t.Fatalf("unexpected pending waiters: %d", clock.WaiterCount())
	}
}
