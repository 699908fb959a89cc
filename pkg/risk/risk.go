// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package risk maps numeric risk values to visual encodings.
//
// # Description
//
// This package is the single source of truth for how a risk score or
// category becomes a color, a label, or a marker size. Every function
// here is pure and total: unknown enumeration values fall back to a
// neutral default rather than failing, so the rendering layer can never
// crash on unexpected server data.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package risk

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Risk Levels
// =============================================================================

// Level is one of the five ordered risk severity categories.
type Level string

const (
	LevelMinimal  Level = "minimal"
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Levels lists all levels in ascending severity order.
var Levels = []Level{LevelMinimal, LevelLow, LevelModerate, LevelHigh, LevelCritical}

// Rank returns the severity rank of the level, 0 (minimal) through
// 4 (critical). Unknown levels rank as minimal.
func (l Level) Rank() int {
	switch l {
	case LevelCritical:
		return 4
	case LevelHigh:
		return 3
	case LevelModerate:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}

// Label returns the display label for the level.
func (l Level) Label() string {
	switch l {
	case LevelMinimal, LevelLow, LevelModerate, LevelHigh, LevelCritical:
		return string(l)
	default:
		return string(LevelMinimal)
	}
}

// LevelForScore maps a numeric score to its risk level.
//
// # Description
//
// Bands partition [0,100] with inclusive lower bounds:
//
//	score >= 80 -> critical
//	score >= 60 -> high
//	score >= 40 -> moderate
//	score >= 20 -> low
//	otherwise   -> minimal
//
// Out-of-range input is not rejected: anything >= 80 is critical and
// anything below 20 (including negatives) is minimal.
func LevelForScore(score float64) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelModerate
	case score >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// =============================================================================
// Colors
// =============================================================================

// levelColors is the fixed level-to-color table.
var levelColors = map[Level]lipgloss.Color{
	LevelMinimal:  lipgloss.Color("#22c55e"),
	LevelLow:      lipgloss.Color("#84cc16"),
	LevelModerate: lipgloss.Color("#eab308"),
	LevelHigh:     lipgloss.Color("#f97316"),
	LevelCritical: lipgloss.Color("#ef4444"),
}

// NeutralColor is the fallback for unknown enumeration keys.
const NeutralColor = lipgloss.Color("#94a3b8")

// LevelColor returns the color for a risk level.
//
// Unknown or absent levels fall back to the minimal color; the lookup
// never fails.
func LevelColor(l Level) lipgloss.Color {
	if c, ok := levelColors[l]; ok {
		return c
	}
	return levelColors[LevelMinimal]
}

// =============================================================================
// Alert Severity
// =============================================================================

// Severity is an alert severity category, ordered info < warning <
// urgent < critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityUrgent   Severity = "urgent"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering rank of the severity, 0 (info) through
// 3 (critical). Unknown severities rank as info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityUrgent:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

var severityColors = map[Severity]lipgloss.Color{
	SeverityInfo:     lipgloss.Color("#3b82f6"),
	SeverityWarning:  lipgloss.Color("#eab308"),
	SeverityUrgent:   lipgloss.Color("#f97316"),
	SeverityCritical: lipgloss.Color("#ef4444"),
}

// SeverityColor returns the color for an alert severity. Unknown
// severities map to the neutral default.
func SeverityColor(s Severity) lipgloss.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return NeutralColor
}

// =============================================================================
// Diseases
// =============================================================================

// diseaseColors covers the disease types the upstream service reports
// today. Disease type is an open-ended key: anything not in this table
// renders with the neutral color.
var diseaseColors = map[string]lipgloss.Color{
	"malaria":     lipgloss.Color("#8b5cf6"),
	"cholera":     lipgloss.Color("#06b6d4"),
	"measles":     lipgloss.Color("#ec4899"),
	"dengue":      lipgloss.Color("#f43f5e"),
	"respiratory": lipgloss.Color("#14b8a6"),
	"typhoid":     lipgloss.Color("#a16207"),
	"ebola":       lipgloss.Color("#7f1d1d"),
	"covid":       lipgloss.Color("#64748b"),
}

// DiseaseColor returns the color for a disease type key. Unknown keys
// map to the neutral default.
func DiseaseColor(diseaseType string) lipgloss.Color {
	if c, ok := diseaseColors[diseaseType]; ok {
		return c
	}
	return NeutralColor
}

// =============================================================================
// Marker Geometry
// =============================================================================

// Marker size bounds for map rendering.
const (
	MinMarkerSize = 8.0
	MaxMarkerSize = 24.0
)

// MarkerSize maps a score in [0,100] to a marker size in [8,24] by
// linear interpolation. The upstream contract does not guarantee score
// boundedness, so out-of-range input is clamped to the same range.
func MarkerSize(score float64) float64 {
	size := MinMarkerSize + (score/100)*(MaxMarkerSize-MinMarkerSize)
	if size < MinMarkerSize {
		return MinMarkerSize
	}
	if size > MaxMarkerSize {
		return MaxMarkerSize
	}
	return size
}

// =============================================================================
// Trends
// =============================================================================

// TrendGlyph returns the arrow glyph for a disease risk trend
// direction. Unknown directions render as steady.
func TrendGlyph(direction string) string {
	switch direction {
	case "increasing":
		return "↑"
	case "decreasing":
		return "↓"
	default:
		return "→"
	}
}
