// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// topAlertsLimit is how many active alerts the dashboard shows.
const topAlertsLimit = 5

// pollInterval is how often the dashboard re-reads the shared cache so
// background refreshes become visible.
const pollInterval = 5 * time.Second

// openRegionMsg asks the app to drill into a region.
type openRegionMsg struct{ code string }

// openTriageMsg asks the app to open alert triage.
type openTriageMsg struct{}

// DashboardModel composes the map snapshot, the risk summary, and the
// top active alerts into the overview screen. The three cache entries
// load independently: whichever arrives first renders first.
type DashboardModel struct {
	sources *Sources

	width  int
	height int

	summary        *client.RiskSummary
	summaryErr     error
	summaryLoading bool

	snapshot   *client.RiskMapSnapshot
	mapErr     error
	mapLoading bool

	alerts        *client.AlertList
	alertsErr     error
	alertsLoading bool

	mapView  *MapView
	spin     spinner.Model
	releases []func()
}

// NewDashboard creates the overview model.
func NewDashboard(sources *Sources) *DashboardModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &DashboardModel{
		sources:        sources,
		mapView:        NewMapView(60, 16),
		spin:           spin,
		summaryLoading: true,
		mapLoading:     true,
		alertsLoading:  true,
	}
}

// Init subscribes the dashboard to its polled cache entries and kicks
// off the initial fetches.
func (m *DashboardModel) Init() tea.Cmd {
	src := m.sources
	m.releases = []func(){
		src.Store.Subscribe(summaryKey(), func(ctx context.Context) (any, error) {
			return src.Client.RiskSummary(ctx, client.SummaryFilter{})
		}),
		src.Store.Subscribe(mapKey(""), func(ctx context.Context) (any, error) {
			return src.Client.RiskMap(ctx, "")
		}),
		src.Store.Subscribe(activeAlertsKey(itoa(topAlertsLimit)), func(ctx context.Context) (any, error) {
			return src.Client.ActiveAlerts(ctx, "", topAlertsLimit)
		}),
	}

	return tea.Batch(
		src.fetchSummary(),
		src.fetchMap(""),
		src.fetchActiveAlerts(topAlertsLimit),
		m.spin.Tick,
		m.pollTick(),
	)
}

// Release drops the dashboard's cache subscriptions.
func (m *DashboardModel) Release() {
	for _, release := range m.releases {
		release()
	}
	m.releases = nil
}

func (m *DashboardModel) pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// Loading reports whether any composed entry is still loading (the
// screen-level loading flag is the OR of the entries').
func (m *DashboardModel) Loading() bool {
	return m.summaryLoading || m.mapLoading || m.alertsLoading
}

// Update handles messages for the dashboard.
func (m *DashboardModel) Update(msg tea.Msg) (*DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapView.SetSize(max(20, msg.Width-4), max(8, msg.Height-18))
		return m, nil

	case summaryMsg:
		m.summaryLoading = false
		if msg.err != nil {
			m.summaryErr = msg.err
			return m, nil
		}
		m.summary, m.summaryErr = msg.summary, nil
		return m, nil

	case mapMsg:
		m.mapLoading = false
		if msg.err != nil {
			m.mapErr = msg.err
			return m, nil
		}
		m.snapshot, m.mapErr = msg.snapshot, nil
		m.mapView.SetData(msg.snapshot.Regions)
		return m, nil

	case alertsMsg:
		if msg.limit != topAlertsLimit {
			return m, nil
		}
		m.alertsLoading = false
		if msg.err != nil {
			m.alertsErr = msg.err
			return m, nil
		}
		m.alerts, m.alertsErr = msg.alerts, nil
		return m, nil

	case pollMsg:
		// Re-read entries refreshed in the background; each read is a
		// cache hit unless the scheduler replaced the value.
		return m, tea.Batch(
			m.sources.fetchSummary(),
			m.sources.fetchMap(""),
			m.sources.fetchActiveAlerts(topAlertsLimit),
			m.pollTick(),
		)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			// Manual refresh re-triggers the map snapshot only.
			m.mapLoading = true
			return m, m.sources.refreshMap("")
		case "tab":
			m.mapView.SelectNext()
			return m, nil
		case "shift+tab":
			m.mapView.SelectPrev()
			return m, nil
		case "up", "k":
			m.mapView.Pan(m.panStep(), 0)
			return m, nil
		case "down", "j":
			m.mapView.Pan(-m.panStep(), 0)
			return m, nil
		case "left", "h":
			m.mapView.Pan(0, -m.panStep())
			return m, nil
		case "right", "l":
			m.mapView.Pan(0, m.panStep())
			return m, nil
		case "+", "=":
			m.mapView.ZoomIn()
			return m, nil
		case "-":
			m.mapView.ZoomOut()
			return m, nil
		case "0":
			m.mapView.SetViewport(0, 0, 1)
			return m, nil
		case "enter":
			if code := m.mapView.Selected(); code != "" {
				return m, func() tea.Msg { return openRegionMsg{code: code} }
			}
			return m, nil
		case "a":
			return m, func() tea.Msg { return openTriageMsg{} }
		}
	}
	return m, nil
}

// panStep is the pan distance in degrees, shrinking as the zoom grows
// so one keypress moves roughly the same number of cells at any scale.
func (m *DashboardModel) panStep() float64 {
	return 10 / m.mapView.Zoom()
}

// View renders the dashboard progressively: panels with data render
// it, panels still loading show the spinner, failed panels show the
// error without blanking the others.
func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("VitalSigns: Global Risk Overview"))
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(m.mapPanel()))
	b.WriteString("\n")

	left := panelStyle.Render(m.summaryPanel())
	right := panelStyle.Render(m.alertsPanel())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: select marker · arrows: pan · +/-: zoom · 0: reset view · enter: region detail · a: triage · r: refresh map · q: quit"))
	return b.String()
}

func (m *DashboardModel) mapPanel() string {
	switch {
	case m.mapLoading && m.snapshot == nil:
		return m.spin.View() + " loading map snapshot"
	case m.mapErr != nil && m.snapshot == nil:
		return errorStyle.Render("map unavailable: " + m.mapErr.Error())
	case m.snapshot == nil || len(m.snapshot.Regions) == 0:
		return emptyStyle.Render("no regions to display")
	}
	header := dimStyle.Render(fmt.Sprintf("map snapshot · %d regions · as of %s",
		len(m.snapshot.Regions), displayTime(m.snapshot.Timestamp)))
	if m.mapErr != nil {
		header += " " + errorStyle.Render("(refresh failed, showing last good data)")
	}
	return header + "\n" + m.mapView.View()
}

func (m *DashboardModel) summaryPanel() string {
	switch {
	case m.summaryLoading && m.summary == nil:
		return m.spin.View() + " loading summary"
	case m.summaryErr != nil && m.summary == nil:
		return errorStyle.Render("summary unavailable: " + m.summaryErr.Error())
	case m.summary == nil:
		return emptyStyle.Render("no summary data")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d regions monitored\n", m.summary.TotalRegions))
	b.WriteString(renderDistribution(m.summary, 36))
	if len(m.summary.TopRiskRegions) > 0 {
		b.WriteString("\n\nhighest risk:")
		for _, r := range m.summary.TopRiskRegions {
			level := risk.Level(r.RiskLevel)
			b.WriteString(fmt.Sprintf("\n  %s %-20s %5.1f",
				levelStyle(level).Render("■"), r.RegionName, r.VitalRiskIndex))
		}
	}
	return b.String()
}

func (m *DashboardModel) alertsPanel() string {
	switch {
	case m.alertsLoading && m.alerts == nil:
		return m.spin.View() + " loading alerts"
	case m.alertsErr != nil && m.alerts == nil:
		return errorStyle.Render("alerts unavailable: " + m.alertsErr.Error())
	case m.alerts == nil || len(m.alerts.Alerts) == 0:
		return emptyStyle.Render("no active alerts")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("active alerts (%d)\n", m.alerts.ActiveCount))
	for _, a := range m.alerts.Alerts {
		sev := risk.Severity(a.Severity)
		b.WriteString(fmt.Sprintf("\n%s %-8s %s",
			severityStyle(sev).Render("▲"), a.Severity, a.Title))
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n   %s · score %.1f", a.RegionName, a.RiskScore)))
	}
	return b.String()
}

// distributionOrder fixes the severity-descending render order of the
// summary bar.
var distributionOrder = []struct {
	level risk.Level
	count func(*client.RiskSummary) int
}{
	{risk.LevelCritical, func(s *client.RiskSummary) int { return s.CriticalCount }},
	{risk.LevelHigh, func(s *client.RiskSummary) int { return s.HighCount }},
	{risk.LevelModerate, func(s *client.RiskSummary) int { return s.ModerateCount }},
	{risk.LevelLow, func(s *client.RiskSummary) int { return s.LowCount }},
	{risk.LevelMinimal, func(s *client.RiskSummary) int { return s.MinimalCount }},
}

// distributionWidths apportions the bar width across per-level counts.
// Widths are proportional to counts and always sum to the full width;
// rounding remainders go to the largest segments first.
func distributionWidths(counts []int, total, width int) []int {
	widths := make([]int, len(counts))
	if total <= 0 || width <= 0 {
		return widths
	}

	assigned := 0
	type remainder struct {
		index    int
		fraction float64
	}
	remainders := make([]remainder, 0, len(counts))
	for i, count := range counts {
		exact := float64(count) * float64(width) / float64(total)
		widths[i] = int(exact)
		assigned += widths[i]
		remainders = append(remainders, remainder{index: i, fraction: exact - float64(widths[i])})
	}

	for assigned < width {
		best := -1
		for i, r := range remainders {
			if best < 0 || r.fraction > remainders[best].fraction {
				best = i
			}
		}
		widths[remainders[best].index]++
		remainders[best].fraction = -1
		assigned++
	}
	return widths
}

// levelPercentages converts per-level counts to display percentages.
func levelPercentages(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total <= 0 {
		return out
	}
	for i, count := range counts {
		out[i] = float64(count) / float64(total) * 100
	}
	return out
}

// renderDistribution draws the per-level distribution bar and legend.
func renderDistribution(summary *client.RiskSummary, width int) string {
	counts := make([]int, len(distributionOrder))
	for i, d := range distributionOrder {
		counts[i] = d.count(summary)
	}
	widths := distributionWidths(counts, summary.TotalRegions, width)
	percentages := levelPercentages(counts, summary.TotalRegions)

	var bar strings.Builder
	var legend strings.Builder
	for i, d := range distributionOrder {
		if widths[i] > 0 {
			bar.WriteString(levelStyle(d.level).Render(strings.Repeat("█", widths[i])))
		}
		if counts[i] > 0 {
			if legend.Len() > 0 {
				legend.WriteString("  ")
			}
			legend.WriteString(fmt.Sprintf("%s %s %.1f%%",
				levelStyle(d.level).Render("■"), d.level.Label(), percentages[i]))
		}
	}
	return bar.String() + "\n" + legend.String()
}

// displayTime formats a server timestamp for display, falling back to
// the raw string when it does not parse.
func displayTime(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04 MST")
		}
	}
	return iso
}
