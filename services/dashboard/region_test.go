// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalsigns-project/vitalsigns/services/client"
)

func TestRegionModel_UnknownCodeIsTerminal(t *testing.T) {
	m := NewRegion(&Sources{}, "XXX")

	m, _ = m.Update(regionMsg{
		code: "XXX",
		err:  fmt.Errorf("region XXX: %w", client.ErrNotFound),
	})
	require.True(t, m.NotFound())

	view := m.View()
	assert.Contains(t, view, "not found")
	assert.Contains(t, view, "XXX")
	// The terminal state must not render panels that can never load.
	assert.NotContains(t, view, "loading risk breakdown")

	// The only action left is returning to the dashboard.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(closeRegionMsg)
	assert.True(t, ok)
}

func TestRegionModel_OtherErrorsAreNotTerminal(t *testing.T) {
	m := NewRegion(&Sources{}, "SSD")

	m, _ = m.Update(regionMsg{
		code: "SSD",
		err:  fmt.Errorf("risk api: %w", client.ErrServer),
	})
	assert.False(t, m.NotFound())
	assert.Contains(t, m.View(), "detail unavailable")
}

func TestRegionModel_IgnoresMessagesForOtherRegions(t *testing.T) {
	m := NewRegion(&Sources{}, "SSD")

	m, _ = m.Update(regionMsg{code: "YEM", err: client.ErrNotFound})
	assert.False(t, m.NotFound())

	m, _ = m.Update(regionRisksMsg{
		code:  "YEM",
		risks: &client.RegionRisks{RegionCode: "YEM"},
	})
	assert.Nil(t, m.risks)
}

func TestRegionModel_RiskPanelRendersCompositeIndex(t *testing.T) {
	m := NewRegion(&Sources{}, "SSD")

	m, _ = m.Update(regionRisksMsg{
		code: "SSD",
		risks: &client.RegionRisks{
			RegionCode: "SSD",
			CompositeRisk: client.RiskIndex{
				RegionCode:              "SSD",
				VitalRiskIndex:          91.2,
				RiskLevel:               "critical",
				HungerStressIndex:       88.4,
				HealthSystemStrainIndex: 93.0,
				DiseaseOutbreakIndex:    90.1,
				ConfidenceScore:         0.8,
			},
			DiseaseRisks: []client.DiseaseRisk{
				{DiseaseType: "cholera", RiskScore: 86.5, RiskLevel: "critical",
					TrendDirection: "increasing", IsHighSeason: true},
			},
			RiskTrend: []client.TrendPoint{
				{Date: "2026-08-24", VitalRiskIndex: 84.0},
				{Date: "2026-08-30", VitalRiskIndex: 91.2},
			},
		},
	})

	view := m.View()
	assert.Contains(t, view, "91.2")
	assert.Contains(t, view, "88.4")
	assert.Contains(t, view, "93.0")
	assert.Contains(t, view, "90.1")
	assert.Contains(t, view, "critical")
	assert.Contains(t, view, "cholera")
	assert.Contains(t, view, "confidence 80%")
	assert.Contains(t, view, "84.0 → 91.2")
	// A verb/argument mismatch would leave fmt error markers behind.
	assert.NotContains(t, view, "%!")
}

func TestRegionModel_EscReturnsToDashboard(t *testing.T) {
	m := NewRegion(&Sources{}, "SSD")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(closeRegionMsg)
	assert.True(t, ok)
}
