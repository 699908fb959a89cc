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
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// triageAlertsLimit is the page size of the triage list.
const triageAlertsLimit = 50

// closeTriageMsg asks the app to return to the dashboard.
type closeTriageMsg struct{}

// triagePollMsg drives periodic re-reads of the triage queue so the
// background alerts-family refresh becomes visible without input.
type triagePollMsg struct{}

// triageAction is the mutation currently being composed.
type triageAction int

const (
	actionNone triageAction = iota
	actionAcknowledge
	actionResolve
)

// TriageModel is the alert triage screen: a severity-ordered table of
// active alerts with acknowledge and resolve workflows. Mutations go
// straight to the API; on success the alerts cache family is
// invalidated and the list refetched, on failure the error renders
// inline and no cached data is touched.
type TriageModel struct {
	sources *Sources

	width  int
	height int

	alerts        *client.AlertList
	alertsErr     error
	alertsLoading bool

	tbl  table.Model
	spin spinner.Model

	action       triageAction
	form         *huh.Form
	target       *client.Alert
	notes        string
	falsePos     bool
	mutating     bool
	mutationErr  error
	lastMutation string

	releases []func()
}

// NewTriage creates the alert triage model.
func NewTriage(sources *Sources) *TriageModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Sev", Width: 9},
		{Title: "Region", Width: 18},
		{Title: "Alert", Width: 34},
		{Title: "Score", Width: 6},
		{Title: "Status", Width: 13},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return &TriageModel{
		sources:       sources,
		tbl:           tbl,
		spin:          spin,
		alertsLoading: true,
	}
}

// Init pins the triage alert list and fetches it.
func (m *TriageModel) Init() tea.Cmd {
	src := m.sources
	m.releases = []func(){
		src.Store.Subscribe(activeAlertsKey(itoa(triageAlertsLimit)), func(ctx context.Context) (any, error) {
			return src.Client.ActiveAlerts(ctx, "", triageAlertsLimit)
		}),
	}
	return tea.Batch(src.fetchActiveAlerts(triageAlertsLimit), m.spin.Tick, m.pollTick())
}

func (m *TriageModel) pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return triagePollMsg{} })
}

// Release drops the triage screen's cache subscription.
func (m *TriageModel) Release() {
	for _, release := range m.releases {
		release()
	}
	m.releases = nil
}

func (m *TriageModel) selectedAlert() *client.Alert {
	if m.alerts == nil {
		return nil
	}
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.alerts.Alerts) {
		return nil
	}
	return &m.alerts.Alerts[idx]
}

func (m *TriageModel) setRows() {
	if m.alerts == nil {
		m.tbl.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(m.alerts.Alerts))
	for _, a := range m.alerts.Alerts {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", a.ID),
			a.Severity,
			a.RegionName,
			a.Title,
			fmt.Sprintf("%.1f", a.RiskScore),
			a.Status,
		})
	}
	m.tbl.SetRows(rows)
}

func (m *TriageModel) startAcknowledge(target *client.Alert) tea.Cmd {
	m.action = actionAcknowledge
	m.target = target
	m.notes = ""
	m.mutationErr = nil
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Acknowledge #%d: %s", target.ID, target.Title)).
			Description("Notes (optional)").
			Value(&m.notes),
	))
	return m.form.Init()
}

func (m *TriageModel) startResolve(target *client.Alert) tea.Cmd {
	m.action = actionResolve
	m.target = target
	m.notes = ""
	m.falsePos = false
	m.mutationErr = nil
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Resolve #%d: %s", target.ID, target.Title)).
			Description("Resolution notes").
			Value(&m.notes),
		huh.NewConfirm().
			Title("Mark as false positive?").
			Value(&m.falsePos),
	))
	return m.form.Init()
}

func (m *TriageModel) submit() tea.Cmd {
	m.mutating = true
	switch m.action {
	case actionAcknowledge:
		return m.sources.acknowledge(m.target.ID, m.notes)
	case actionResolve:
		return m.sources.resolve(m.target.ID, m.notes, m.falsePos)
	}
	return nil
}

func (m *TriageModel) resetForm() {
	m.action = actionNone
	m.form = nil
	m.target = nil
}

// Update handles messages for the triage screen.
func (m *TriageModel) Update(msg tea.Msg) (*TriageModel, tea.Cmd) {
	// While a form is open it owns the keyboard.
	if m.form != nil {
		switch msg := msg.(type) {
		case mutationMsg:
			return m.handleMutation(msg)
		case triagePollMsg:
			return m, tea.Batch(m.sources.fetchActiveAlerts(triageAlertsLimit), m.pollTick())
		case spinner.TickMsg:
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

		model, cmd := m.form.Update(msg)
		if form, ok := model.(*huh.Form); ok {
			m.form = form
		}
		switch m.form.State {
		case huh.StateCompleted:
			return m, m.submit()
		case huh.StateAborted:
			m.resetForm()
			return m, nil
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tbl.SetHeight(max(6, msg.Height-10))
		return m, nil

	case alertsMsg:
		if msg.limit != triageAlertsLimit {
			return m, nil
		}
		m.alertsLoading = false
		if msg.err != nil {
			m.alertsErr = msg.err
			return m, nil
		}
		m.alerts, m.alertsErr = msg.alerts, nil
		m.setRows()
		return m, nil

	case mutationMsg:
		return m.handleMutation(msg)

	case triagePollMsg:
		return m, tea.Batch(m.sources.fetchActiveAlerts(triageAlertsLimit), m.pollTick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			return m, func() tea.Msg { return closeTriageMsg{} }
		case "a":
			if target := m.selectedAlert(); target != nil && target.Status == client.AlertStatusActive {
				return m, m.startAcknowledge(target)
			}
			return m, nil
		case "s":
			if target := m.selectedAlert(); target != nil {
				return m, m.startResolve(target)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *TriageModel) handleMutation(msg mutationMsg) (*TriageModel, tea.Cmd) {
	m.mutating = false
	if msg.err != nil {
		// Failure leaves the cache alone: the list keeps showing the
		// state from before the attempt.
		m.mutationErr = msg.err
		m.resetForm()
		return m, nil
	}
	m.lastMutation = fmt.Sprintf("alert #%d is now %s", msg.alert.ID, msg.alert.Status)
	m.mutationErr = nil
	m.resetForm()
	// The mutation invalidated the alerts family; this read refetches.
	m.alertsLoading = true
	return m, m.sources.fetchActiveAlerts(triageAlertsLimit)
}

// View renders the triage screen.
func (m *TriageModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Alert Triage"))
	b.WriteString("\n")

	switch {
	case m.alertsLoading && m.alerts == nil:
		b.WriteString(panelStyle.Render(m.spin.View() + " loading alerts"))
	case m.alertsErr != nil && m.alerts == nil:
		b.WriteString(panelStyle.Render(errorStyle.Render("alerts unavailable: " + m.alertsErr.Error())))
	case m.alerts == nil || len(m.alerts.Alerts) == 0:
		b.WriteString(panelStyle.Render(emptyStyle.Render("no active alerts")))
	default:
		header := fmt.Sprintf("%d active · showing %d", m.alerts.ActiveCount, len(m.alerts.Alerts))
		if sel := m.selectedAlert(); sel != nil {
			sev := risk.Severity(sel.Severity)
			header += "  " + severityStyle(sev).Render("▲ "+sel.Severity)
		}
		b.WriteString(panelStyle.Render(dimStyle.Render(header) + "\n" + m.tbl.View()))
	}
	b.WriteString("\n")

	switch {
	case m.form != nil:
		b.WriteString(panelStyle.Render(m.form.View()))
	case m.mutating:
		b.WriteString(panelStyle.Render(m.spin.View() + " applying"))
	case m.mutationErr != nil:
		b.WriteString(errorStyle.Render("action failed: " + m.mutationErr.Error()))
	case m.lastMutation != "":
		b.WriteString(dimStyle.Render(m.lastMutation))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("a: acknowledge · s: resolve · esc: back · q: quit"))
	return b.String()
}
