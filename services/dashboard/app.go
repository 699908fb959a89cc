// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitalsigns-project/vitalsigns/pkg/logging"
	"github.com/vitalsigns-project/vitalsigns/services/client"
	"github.com/vitalsigns-project/vitalsigns/services/store"
)

// screen identifies the active view.
type screen int

const (
	screenDashboard screen = iota
	screenRegion
	screenTriage
)

// App is the top-level model: it owns the data sources and switches
// between the overview, region drill-down, and triage screens. Each
// screen subscribes to its cache entries on entry and releases them on
// exit so entries nothing is watching get garbage collected.
type App struct {
	sources *Sources
	logger  *logging.Logger

	active screen
	width  int
	height int

	dashboard *DashboardModel
	region    *RegionModel
	triage    *TriageModel
}

// NewApp wires the client and store into the TUI.
func NewApp(apiClient *client.Client, cache *store.Store, logger *logging.Logger) *App {
	sources := &Sources{Client: apiClient, Store: cache}
	return &App{
		sources:   sources,
		logger:    logger,
		dashboard: NewDashboard(sources),
	}
}

// Init starts the overview screen.
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update routes messages to the active screen and handles screen
// transitions.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every live screen gets the new size.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		cmds = append(cmds, cmd)
		if a.region != nil {
			a.region, cmd = a.region.Update(msg)
			cmds = append(cmds, cmd)
		}
		if a.triage != nil {
			a.triage, cmd = a.triage.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// The triage notes form needs plain letters.
			if a.active == screenTriage && a.triage != nil && a.triage.form != nil {
				break
			}
			return a, tea.Quit
		}

	case openRegionMsg:
		if a.region != nil {
			a.region.Release()
		}
		a.region = NewRegion(a.sources, msg.code)
		a.active = screenRegion
		a.logger.Debug("open region screen", "code", msg.code)
		cmd := a.region.Init()
		if a.width > 0 {
			a.region, _ = a.region.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, cmd

	case closeRegionMsg:
		if a.region != nil {
			a.region.Release()
			a.region = nil
		}
		a.active = screenDashboard
		return a, nil

	case openTriageMsg:
		if a.triage != nil {
			a.triage.Release()
		}
		a.triage = NewTriage(a.sources)
		a.active = screenTriage
		a.logger.Debug("open triage screen")
		cmd := a.triage.Init()
		if a.width > 0 {
			a.triage, _ = a.triage.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, cmd

	case closeTriageMsg:
		if a.triage != nil {
			a.triage.Release()
			a.triage = nil
		}
		a.active = screenDashboard
		return a, nil
	}

	// The dashboard keeps receiving data and poll messages while a
	// drill-down screen is on top, so returning to it shows current
	// data immediately.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch a.active {
	case screenRegion:
		if a.region != nil {
			a.region, cmd = a.region.Update(msg)
			cmds = append(cmds, cmd)
		}
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			a.dashboard, cmd = a.dashboard.Update(msg)
			cmds = append(cmds, cmd)
		}
	case screenTriage:
		if a.triage != nil {
			a.triage, cmd = a.triage.Update(msg)
			cmds = append(cmds, cmd)
		}
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			a.dashboard, cmd = a.dashboard.Update(msg)
			cmds = append(cmds, cmd)
		}
	default:
		a.dashboard, cmd = a.dashboard.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// View renders the active screen.
func (a *App) View() string {
	switch a.active {
	case screenRegion:
		if a.region != nil {
			return a.region.View()
		}
	case screenTriage:
		if a.triage != nil {
			return a.triage.View()
		}
	}
	return a.dashboard.View()
}
