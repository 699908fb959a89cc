// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// runAlerts lists alerts. Active alerts only, unless --all or an
// explicit filter widens the scope.
func runAlerts(cmd *cobra.Command, args []string) {
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	filter := client.AlertFilter{
		Severity:   alertSeverity,
		RegionCode: alertRegion,
		Limit:      alertLimit,
	}
	if !showAll {
		filter.Status = client.AlertStatusActive
	}

	list, err := apiClient.ListAlerts(ctx, filter)
	if err != nil {
		os.Exit(OutputError(jsonOutput, "list alerts", err))
	}

	if jsonOutput {
		if err := OutputJSON(list); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}

	fmt.Printf("%d alerts (%d active)\n\n", list.Total, list.ActiveCount)
	if len(list.Alerts) == 0 {
		return
	}
	fmt.Printf("%-5s %-10s %-8s %-14s %6s  %s\n", "ID", "SEVERITY", "REGION", "STATUS", "SCORE", "TITLE")
	for _, a := range list.Alerts {
		fmt.Printf("%-5d %-10s %-8s %-14s %6.1f  %s\n",
			a.ID, severityBadge(a.Severity), a.RegionCode, a.Status, a.RiskScore, a.Title)
	}
}

func parseAlertID(arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "Error: alert id must be a positive integer, got %q\n", arg)
		os.Exit(CLIExitUsage)
	}
	return id
}

// runAcknowledge acknowledges an active alert. The server rejects
// acknowledgements of alerts in any other state.
func runAcknowledge(cmd *cobra.Command, args []string) {
	id := parseAlertID(args[0])
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	alert, err := apiClient.AcknowledgeAlert(ctx, id, ackNotes)
	if err != nil {
		if errors.Is(err, client.ErrBadRequest) {
			os.Exit(OutputError(jsonOutput,
				fmt.Sprintf("alert %d is not active", id), err))
		}
		os.Exit(OutputError(jsonOutput, fmt.Sprintf("acknowledge alert %d", id), err))
	}

	if jsonOutput {
		if err := OutputJSON(alert); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}
	fmt.Printf("alert %d acknowledged (%s: %s)\n", alert.ID, alert.Title, alert.Status)
}

// runResolve resolves an alert, optionally marking it a false
// positive.
func runResolve(cmd *cobra.Command, args []string) {
	id := parseAlertID(args[0])
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	alert, err := apiClient.ResolveAlert(ctx, id, client.ResolveRequest{
		ResolutionNotes:  resolveNotes,
		WasFalsePositive: falsePositive,
	})
	if err != nil {
		os.Exit(OutputError(jsonOutput, fmt.Sprintf("resolve alert %d", id), err))
	}

	if jsonOutput {
		if err := OutputJSON(alert); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}
	fmt.Printf("alert %d resolved (%s: %s)\n", alert.ID, alert.Title, alert.Status)
}
