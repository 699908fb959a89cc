// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// MapView plots region markers on a character grid. It holds no risk
// logic: color and marker weight come entirely from pkg/risk. The
// selection is view-local transient state keyed by region code, so it
// survives both data refreshes and viewport changes.
type MapView struct {
	regions []client.MapRegion

	width  int
	height int

	centerLat float64
	centerLng float64
	zoom      float64

	selected string
}

// NewMapView creates a world-spanning map view.
func NewMapView(width, height int) *MapView {
	return &MapView{
		width:  width,
		height: height,
		zoom:   1,
	}
}

// SetData replaces the rendered snapshot. The selection is preserved
// when the selected region is still present, dropped otherwise.
func (m *MapView) SetData(regions []client.MapRegion) {
	m.regions = regions
	if m.selected != "" && m.indexOf(m.selected) < 0 {
		m.selected = ""
	}
}

// SetSize resizes the grid.
func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetViewport recenters and rescales the projection. Marker selection
// is untouched.
func (m *MapView) SetViewport(centerLat, centerLng, zoom float64) {
	m.centerLat = centerLat
	m.centerLng = centerLng
	if zoom > 0 {
		m.zoom = zoom
	}
}

const (
	minZoom = 0.5
	maxZoom = 8
)

// Pan moves the viewport center. Latitude clamps at the poles,
// longitude wraps across the antimeridian. Marker selection is
// untouched.
func (m *MapView) Pan(dLat, dLng float64) {
	m.centerLat = math.Max(-90, math.Min(90, m.centerLat+dLat))
	m.centerLng += dLng
	for m.centerLng > 180 {
		m.centerLng -= 360
	}
	for m.centerLng < -180 {
		m.centerLng += 360
	}
}

// ZoomIn scales the projection up one step, ZoomOut down one. Both
// clamp so the view can neither invert nor shrink the world below half
// the grid.
func (m *MapView) ZoomIn()  { m.setZoom(m.zoom * 2) }
func (m *MapView) ZoomOut() { m.setZoom(m.zoom / 2) }

func (m *MapView) setZoom(zoom float64) {
	m.zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
}

// Zoom returns the current zoom factor.
func (m *MapView) Zoom() float64 { return m.zoom }

// Selected returns the selected region code, "" when none.
func (m *MapView) Selected() string { return m.selected }

// SelectNext moves the selection to the next marker (wrapping), in
// snapshot order. Selecting changes only how the marker is drawn; no
// data is refetched.
func (m *MapView) SelectNext() {
	if len(m.regions) == 0 {
		return
	}
	idx := m.indexOf(m.selected)
	m.selected = m.regions[(idx+1)%len(m.regions)].Code
}

// SelectPrev moves the selection to the previous marker (wrapping).
func (m *MapView) SelectPrev() {
	if len(m.regions) == 0 {
		return
	}
	idx := m.indexOf(m.selected)
	if idx < 0 {
		idx = 0
	}
	m.selected = m.regions[(idx-1+len(m.regions))%len(m.regions)].Code
}

func (m *MapView) indexOf(code string) int {
	for i, r := range m.regions {
		if r.Code == code {
			return i
		}
	}
	return -1
}

// markerRune buckets the continuous marker size onto the character
// grid's four weights.
func markerRune(size float64) rune {
	switch {
	case size >= 21:
		return '█'
	case size >= 16:
		return '◉'
	case size >= 11:
		return '●'
	default:
		return '·'
	}
}

// project maps geographic coordinates onto the grid. ok is false when
// the point falls outside the viewport.
func (m *MapView) project(lat, lng float64) (row, col int, ok bool) {
	if m.width <= 0 || m.height <= 0 {
		return 0, 0, false
	}
	dLng := lng - m.centerLng
	for dLng > 180 {
		dLng -= 360
	}
	for dLng < -180 {
		dLng += 360
	}

	col = int(math.Round(float64(m.width)/2 + dLng/360*float64(m.width)*m.zoom))
	row = int(math.Round(float64(m.height)/2 - (lat-m.centerLat)/180*float64(m.height)*m.zoom))
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return 0, 0, false
	}
	return row, col, true
}

// cell is one occupied grid position.
type cell struct {
	code  string
	glyph rune
	style lipgloss.Style
	score float64
}

// View renders the grid. When two markers land on the same cell the
// higher-scoring one wins, so hotspots stay visible at low zoom.
func (m *MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	grid := make(map[[2]int]cell)
	for _, region := range m.regions {
		row, col, ok := m.project(region.Lat, region.Lng)
		if !ok {
			continue
		}
		pos := [2]int{row, col}
		if existing, busy := grid[pos]; busy {
			// The selected marker always wins its cell; otherwise the
			// higher-scoring region does.
			if existing.code == m.selected && region.Code != m.selected {
				continue
			}
			if existing.score >= region.VitalRiskIndex && region.Code != m.selected {
				continue
			}
		}

		level := risk.Level(region.RiskLevel)
		if region.RiskLevel == "" {
			level = risk.LevelForScore(region.VitalRiskIndex)
		}
		style := lipgloss.NewStyle().Foreground(risk.LevelColor(level))
		if region.Code == m.selected {
			style = selectedMarkerStyle.Foreground(risk.LevelColor(level))
		}
		grid[pos] = cell{
			code:  region.Code,
			glyph: markerRune(risk.MarkerSize(region.VitalRiskIndex)),
			style: style,
			score: region.VitalRiskIndex,
		}
	}

	var b strings.Builder
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			if c, ok := grid[[2]int{row, col}]; ok {
				b.WriteString(c.style.Render(string(c.glyph)))
			} else {
				b.WriteByte(' ')
			}
		}
		if row < m.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
