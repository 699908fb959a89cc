// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsigns-project/vitalsigns/services/client"
)

func testRegions() []client.MapRegion {
	return []client.MapRegion{
		{Code: "SSD", Name: "South Sudan", Lat: 7.86, Lng: 29.69, VitalRiskIndex: 85, RiskLevel: "critical"},
		{Code: "YEM", Name: "Yemen", Lat: 15.55, Lng: 48.51, VitalRiskIndex: 72, RiskLevel: "high"},
		{Code: "NOR", Name: "Norway", Lat: 60.47, Lng: 8.46, VitalRiskIndex: 5, RiskLevel: "minimal"},
	}
}

func TestMapView_Project_CenterLandsMidGrid(t *testing.T) {
	v := NewMapView(80, 24)

	row, col, ok := v.project(0, 0)
	require.True(t, ok)
	assert.Equal(t, 12, row)
	assert.Equal(t, 40, col)
}

func TestMapView_Project_OutsideViewport(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetViewport(0, 0, 4)

	// Zoomed in on the prime meridian, the antimeridian is off-grid.
	_, _, ok := v.project(0, 179)
	assert.False(t, ok)
}

func TestMapView_Project_NormalizesLongitudeAcrossAntimeridian(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetViewport(0, 170, 1)

	// 170E center: -175 is 15 degrees east of center, not 345 west.
	_, colEast, ok := v.project(0, -175)
	require.True(t, ok)
	_, colCenter, ok := v.project(0, 170)
	require.True(t, ok)
	assert.Greater(t, colEast, colCenter)
}

func TestMapView_Selection_SurvivesViewportChange(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetData(testRegions())
	v.SelectNext()
	require.Equal(t, "SSD", v.Selected())

	v.SetViewport(10, 30, 3)
	assert.Equal(t, "SSD", v.Selected())
}

func TestMapView_Selection_PreservedAcrossRefresh(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetData(testRegions())
	v.SelectNext()
	v.SelectNext()
	require.Equal(t, "YEM", v.Selected())

	// Refresh with the region still present keeps the selection.
	v.SetData(testRegions())
	assert.Equal(t, "YEM", v.Selected())

	// Refresh without it drops the selection.
	v.SetData(testRegions()[:1])
	assert.Equal(t, "", v.Selected())
}

func TestMapView_SelectNext_Wraps(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetData(testRegions())

	codes := make([]string, 0, 4)
	for range 4 {
		v.SelectNext()
		codes = append(codes, v.Selected())
	}
	assert.Equal(t, []string{"SSD", "YEM", "NOR", "SSD"}, codes)

	v.SelectPrev()
	assert.Equal(t, "NOR", v.Selected())
}

func TestMapView_SelectNext_EmptySnapshot(t *testing.T) {
	v := NewMapView(80, 24)
	v.SelectNext()
	assert.Equal(t, "", v.Selected())
}

func TestMarkerRune_Buckets(t *testing.T) {
	cases := []struct {
		size float64
		want rune
	}{
		{8, '·'},
		{10.9, '·'},
		{11, '●'},
		{16, '◉'},
		{21, '█'},
		{24, '█'},
	}
	for _, tc := range cases {
		if got := markerRune(tc.size); got != tc.want {
			t.Errorf("markerRune(%v) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestMapView_View_GridDimensions(t *testing.T) {
	v := NewMapView(40, 10)
	v.SetData(testRegions())

	lines := strings.Split(v.View(), "\n")
	require.Len(t, lines, 10)
}

func TestMapView_Pan_ClampsLatitudeWrapsLongitude(t *testing.T) {
	v := NewMapView(80, 24)

	// 100 degrees north clamps at the pole; 200 east wraps to 160W.
	v.Pan(100, 0)
	v.Pan(0, 200)
	row, col, ok := v.project(90, -160)
	require.True(t, ok)
	assert.Equal(t, 12, row)
	assert.Equal(t, 40, col)
}

func TestMapView_Pan_ShiftsProjection(t *testing.T) {
	v := NewMapView(80, 24)

	_, colBefore, ok := v.project(0, 30)
	require.True(t, ok)
	v.Pan(0, 30)
	_, colAfter, ok := v.project(0, 30)
	require.True(t, ok)
	assert.Less(t, colAfter, colBefore)
}

func TestMapView_Zoom_Clamps(t *testing.T) {
	v := NewMapView(80, 24)

	for i := 0; i < 10; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, float64(maxZoom), v.Zoom())

	for i := 0; i < 10; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, minZoom, v.Zoom())
}

func TestMapView_Pan_KeepsSelection(t *testing.T) {
	v := NewMapView(80, 24)
	v.SetData(testRegions())
	v.SelectNext()
	code := v.Selected()
	require.NotEmpty(t, code)

	v.Pan(20, -40)
	v.ZoomIn()
	assert.Equal(t, code, v.Selected())
}
