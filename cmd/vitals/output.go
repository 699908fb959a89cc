// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitError   = 1 // Operation failed
	CLIExitUsage   = 2 // Invalid arguments
)

// colorEnabled reports whether stdout is a terminal; non-terminal
// output (pipes, redirects) gets plain text.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// levelBadge renders a risk level tag, colored on terminals.
func levelBadge(level string) string {
	l := risk.Level(level)
	if !colorEnabled() {
		return l.Label()
	}
	return lipgloss.NewStyle().
		Foreground(risk.LevelColor(l)).
		Bold(true).
		Render(l.Label())
}

// severityBadge renders an alert severity tag, colored on terminals.
func severityBadge(severity string) string {
	if !colorEnabled() {
		return severity
	}
	return lipgloss.NewStyle().
		Foreground(risk.SeverityColor(risk.Severity(severity))).
		Bold(true).
		Render(severity)
}

// OutputJSON writes structured data as indented JSON to stdout.
func OutputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// OutputError writes an error to stderr and returns the exit code to
// use. In JSON mode the error goes to stdout as a JSON object so
// scripted callers parse one stream.
func OutputError(jsonMode bool, msg string, err error) int {
	if jsonMode {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(map[string]string{
			"error": fmt.Sprintf("%s: %v", msg, err),
		})
		return CLIExitError
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	return CLIExitError
}
