// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package risk

import (
	"testing"
)

// TestLevelForScore_Thresholds verifies the fixed band boundaries,
// including the inclusive lower bound of each band.
func TestLevelForScore_Thresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{0, LevelMinimal},
		{19.99, LevelMinimal},
		{20, LevelLow},
		{39.99, LevelLow},
		{40, LevelModerate},
		{59.99, LevelModerate},
		{60, LevelHigh},
		{79.9, LevelHigh},
		{80, LevelCritical},
		{100, LevelCritical},
	}
	for _, tc := range cases {
		if got := LevelForScore(tc.score); got != tc.want {
			t.Errorf("LevelForScore(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

// TestLevelForScore_OutOfRange verifies clamping behavior: scores above
// 100 are critical, negative scores are minimal.
func TestLevelForScore_OutOfRange(t *testing.T) {
	if got := LevelForScore(250); got != LevelCritical {
		t.Errorf("LevelForScore(250) = %v, want critical", got)
	}
	if got := LevelForScore(-5); got != LevelMinimal {
		t.Errorf("LevelForScore(-5) = %v, want minimal", got)
	}
}

// TestLevelForScore_Monotonic verifies severity rank never decreases as
// the score increases across the full band range.
func TestLevelForScore_Monotonic(t *testing.T) {
	prev := -1
	for score := -10.0; score <= 120.0; score += 0.5 {
		rank := LevelForScore(score).Rank()
		if rank < prev {
			t.Fatalf("severity rank decreased at score %v: %d -> %d", score, prev, rank)
		}
		prev = rank
	}
}

// TestLevelColor_RoundTrip verifies the level-to-color mapping is a
// fixed table: repeated lookups of a known level yield the same color.
func TestLevelColor_RoundTrip(t *testing.T) {
	for _, level := range Levels {
		first := LevelColor(level)
		for i := 0; i < 3; i++ {
			if got := LevelColor(level); got != first {
				t.Errorf("LevelColor(%v) changed between calls: %v -> %v", level, first, got)
			}
		}
	}
}

// TestLevelColor_UnknownFallsBack verifies unknown levels never fail
// and render as minimal.
func TestLevelColor_UnknownFallsBack(t *testing.T) {
	if got := LevelColor(Level("apocalyptic")); got != LevelColor(LevelMinimal) {
		t.Errorf("unknown level should fall back to minimal color, got %v", got)
	}
	if got := LevelColor(Level("")); got != LevelColor(LevelMinimal) {
		t.Errorf("empty level should fall back to minimal color, got %v", got)
	}
}

// TestMarkerSize_Endpoints verifies the interpolation endpoints and
// defensive clamping for out-of-range scores.
func TestMarkerSize_Endpoints(t *testing.T) {
	if got := MarkerSize(0); got != 8 {
		t.Errorf("MarkerSize(0) = %v, want 8", got)
	}
	if got := MarkerSize(100); got != 24 {
		t.Errorf("MarkerSize(100) = %v, want 24", got)
	}
	if got := MarkerSize(50); got != 16 {
		t.Errorf("MarkerSize(50) = %v, want 16", got)
	}
	if got := MarkerSize(-40); got != 8 {
		t.Errorf("MarkerSize(-40) = %v, want clamp to 8", got)
	}
	if got := MarkerSize(400); got != 24 {
		t.Errorf("MarkerSize(400) = %v, want clamp to 24", got)
	}
}

// TestMarkerSize_Monotonic verifies size strictly increases on [0,100].
func TestMarkerSize_Monotonic(t *testing.T) {
	prev := MarkerSize(0)
	for score := 1.0; score <= 100.0; score++ {
		size := MarkerSize(score)
		if size <= prev {
			t.Fatalf("MarkerSize not increasing at score %v: %v -> %v", score, prev, size)
		}
		prev = size
	}
}

// TestSeverityRank_Ordering verifies info < warning < urgent < critical.
func TestSeverityRank_Ordering(t *testing.T) {
	order := []Severity{SeverityInfo, SeverityWarning, SeverityUrgent, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("severity %v should rank above %v", order[i], order[i-1])
		}
	}
	if Severity("unheard-of").Rank() != SeverityInfo.Rank() {
		t.Error("unknown severity should rank as info")
	}
}

// TestDiseaseColor_UnknownFallsBack verifies open-ended disease keys
// never fail the lookup.
func TestDiseaseColor_UnknownFallsBack(t *testing.T) {
	if got := DiseaseColor("malaria"); got == NeutralColor {
		t.Error("known disease should have a dedicated color")
	}
	if got := DiseaseColor("novel_pathogen_x"); got != NeutralColor {
		t.Errorf("unknown disease should map to neutral, got %v", got)
	}
}

// TestTrendGlyph covers all trend directions including unknown input.
func TestTrendGlyph(t *testing.T) {
	cases := map[string]string{
		"increasing": "↑",
		"decreasing": "↓",
		"stable":     "→",
		"":           "→",
		"sideways":   "→",
	}
	for direction, want := range cases {
		if got := TrendGlyph(direction); got != want {
			t.Errorf("TrendGlyph(%q) = %q, want %q", direction, got, want)
		}
	}
}
