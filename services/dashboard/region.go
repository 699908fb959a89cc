// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// closeRegionMsg asks the app to return to the dashboard.
type closeRegionMsg struct{}

// RegionModel is the drill-down screen for a single region: detail
// record, composite risk breakdown, disease risks, the 7-day trend,
// and recent signals. The detail and breakdown load independently.
type RegionModel struct {
	sources *Sources
	code    string

	width  int
	height int

	detail        *client.RegionDetail
	detailErr     error
	detailLoading bool
	notFound      bool

	risks        *client.RegionRisks
	risksErr     error
	risksLoading bool

	signals        []client.Signal
	signalsErr     error
	signalsLoading bool

	spin     spinner.Model
	releases []func()
}

// NewRegion creates the drill-down model for one region code.
func NewRegion(sources *Sources, code string) *RegionModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &RegionModel{
		sources:        sources,
		code:           code,
		spin:           spin,
		detailLoading:  true,
		risksLoading:   true,
		signalsLoading: true,
	}
}

// Init pins the region's cache entries and fetches them.
func (m *RegionModel) Init() tea.Cmd {
	src := m.sources
	code := m.code
	m.releases = []func(){
		src.Store.Subscribe(regionKey(code), func(ctx context.Context) (any, error) {
			return src.Client.GetRegion(ctx, code)
		}),
		src.Store.Subscribe(regionRisksKey(code), func(ctx context.Context) (any, error) {
			return src.Client.RegionRisks(ctx, code)
		}),
		src.Store.Subscribe(signalsKey(code), func(ctx context.Context) (any, error) {
			return src.Client.RegionSignals(ctx, code, client.SignalFilter{})
		}),
	}
	return tea.Batch(
		src.fetchRegion(code),
		src.fetchRegionRisks(code),
		src.fetchSignals(code),
		m.spin.Tick,
	)
}

// Release drops the subscriptions so the region's entries can be
// garbage collected once nothing else holds them.
func (m *RegionModel) Release() {
	for _, release := range m.releases {
		release()
	}
	m.releases = nil
}

// Update handles messages for the region screen.
func (m *RegionModel) Update(msg tea.Msg) (*RegionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case regionMsg:
		if msg.code != m.code {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailErr = msg.err
			// An unknown code is terminal: nothing else on this
			// screen can succeed, so it collapses to a single
			// "return" action.
			m.notFound = errors.Is(msg.err, client.ErrNotFound)
			return m, nil
		}
		m.detail, m.detailErr = msg.detail, nil
		return m, nil

	case regionRisksMsg:
		if msg.code != m.code {
			return m, nil
		}
		m.risksLoading = false
		if msg.err != nil {
			m.risksErr = msg.err
			return m, nil
		}
		m.risks, m.risksErr = msg.risks, nil
		return m, nil

	case signalsMsg:
		if msg.code != m.code {
			return m, nil
		}
		m.signalsLoading = false
		if msg.err != nil {
			m.signalsErr = msg.err
			return m, nil
		}
		m.signals, m.signalsErr = msg.signals, nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			return m, func() tea.Msg { return closeRegionMsg{} }
		case "enter":
			if m.notFound {
				return m, func() tea.Msg { return closeRegionMsg{} }
			}
		}
	}
	return m, nil
}

// NotFound reports whether the region code resolved to nothing.
func (m *RegionModel) NotFound() bool { return m.notFound }

// View renders the region screen.
func (m *RegionModel) View() string {
	if m.notFound {
		return panelStyle.Render(
			errorStyle.Render(fmt.Sprintf("region %q not found", m.code)) +
				"\n\n" + helpStyle.Render("enter/esc: back to dashboard"))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.riskPanel()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.signalsPanel()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc: back · q: quit"))
	return b.String()
}

func (m *RegionModel) header() string {
	switch {
	case m.detailLoading && m.detail == nil:
		return titleStyle.Render("Region "+m.code) + "  " + m.spin.View()
	case m.detailErr != nil && m.detail == nil:
		return titleStyle.Render("Region "+m.code) + "\n" +
			errorStyle.Render("detail unavailable: "+m.detailErr.Error())
	case m.detail == nil:
		return titleStyle.Render("Region " + m.code)
	}

	d := m.detail
	title := titleStyle.Render(fmt.Sprintf("%s (%s)", d.Name, d.Code))
	meta := fmt.Sprintf("%s · %s", d.Level, d.Continent)
	if d.ISOCode != "" {
		meta += " · " + d.ISOCode
	}
	if d.Population != nil {
		meta += fmt.Sprintf(" · pop %d", *d.Population)
	}
	if d.ActiveAlertsCount > 0 {
		meta += errorStyle.Render(fmt.Sprintf(" · %d active alerts", d.ActiveAlertsCount))
	}
	return title + "\n" + dimStyle.Render(meta)
}

func (m *RegionModel) riskPanel() string {
	switch {
	case m.risksLoading && m.risks == nil:
		return m.spin.View() + " loading risk breakdown"
	case m.risksErr != nil && m.risks == nil:
		return errorStyle.Render("risk breakdown unavailable: " + m.risksErr.Error())
	case m.risks == nil:
		return emptyStyle.Render("no risk data")
	}

	composite := m.risks.CompositeRisk
	level := risk.Level(composite.RiskLevel)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("vital risk index  %s %5.1f %s  %s\n",
		gauge(composite.VitalRiskIndex, 24), composite.VitalRiskIndex,
		levelStyle(level).Render(level.Label()),
		dimStyle.Render(fmt.Sprintf("confidence %.0f%%", composite.ConfidenceScore*100))))
	b.WriteString(fmt.Sprintf("  hunger stress   %s %5.1f\n",
		gauge(composite.HungerStressIndex, 24), composite.HungerStressIndex))
	b.WriteString(fmt.Sprintf("  health strain   %s %5.1f\n",
		gauge(composite.HealthSystemStrainIndex, 24), composite.HealthSystemStrainIndex))
	b.WriteString(fmt.Sprintf("  disease risk    %s %5.1f\n",
		gauge(composite.DiseaseOutbreakIndex, 24), composite.DiseaseOutbreakIndex))

	if len(m.risks.RiskTrend) > 0 {
		values := make([]float64, len(m.risks.RiskTrend))
		for i, p := range m.risks.RiskTrend {
			values[i] = p.VitalRiskIndex
		}
		b.WriteString("\n7-day trend  " + sparkline(values))
		first, last := values[0], values[len(values)-1]
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %.1f → %.1f", first, last)))
		b.WriteString("\n")
	}

	if len(m.risks.DiseaseRisks) > 0 {
		b.WriteString("\ndisease risks:")
		for _, dr := range m.risks.DiseaseRisks {
			drLevel := risk.Level(dr.RiskLevel)
			line := fmt.Sprintf("\n  %s %-12s %5.1f %s",
				levelStyle(drLevel).Render("■"), dr.DiseaseType, dr.RiskScore,
				risk.TrendGlyph(dr.TrendDirection))
			if dr.IsHighSeason {
				line += dimStyle.Render(" high season")
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

func (m *RegionModel) signalsPanel() string {
	switch {
	case m.signalsLoading && m.signals == nil:
		return m.spin.View() + " loading signals"
	case m.signalsErr != nil && m.signals == nil:
		return errorStyle.Render("signals unavailable: " + m.signalsErr.Error())
	case len(m.signals) == 0:
		return emptyStyle.Render("no recent signals")
	}

	var b strings.Builder
	b.WriteString("recent signals:")
	for _, sig := range m.signals {
		marker := " "
		if sig.IsAnomaly {
			marker = errorStyle.Render("!")
		}
		b.WriteString(fmt.Sprintf("\n%s %-24s %8.2f %-6s %s",
			marker, sig.IndicatorName, sig.Value, sig.Unit,
			dimStyle.Render(fmt.Sprintf("%s · %s · conf %.0f%%",
				sig.SourceName, sig.ObservationDate, sig.Confidence*100))))
	}
	return b.String()
}

// gauge draws a fixed-width bar for a 0-100 score, colored by the
// score's risk level.
func gauge(score float64, width int) string {
	clamped := score
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	filled := int(clamped / 100 * float64(width))
	level := risk.LevelForScore(score)
	bar := levelStyle(level).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
