// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e2e8f0")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))

	selectedMarkerStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true)
)

// levelStyle renders text in the level's risk color.
func levelStyle(level risk.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(risk.LevelColor(level))
}

// severityStyle renders text in the severity's color.
func severityStyle(severity risk.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(risk.SeverityColor(severity))
}
