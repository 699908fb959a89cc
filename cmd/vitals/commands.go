// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	apiURL     string
	jsonOutput bool

	// regions filters
	regionLevel     string
	regionContinent string
	regionLimit     int
	regionParent    string

	// region detail
	showChildren bool

	// alerts filters
	alertSeverity string
	alertRegion   string
	alertLimit    int
	showAll       bool

	// alert mutations
	ackNotes      string
	resolveNotes  string
	falsePositive bool

	// disease filters
	diseaseRiskLevel string
	diseaseLimit     int

	// signals
	signalType      string
	signalIndicator string
	signalDays      int
	asSeries        bool

	// dashboard
	metricsAddr string

	rootCmd = &cobra.Command{
		Use:   "vitals",
		Short: "A cli for monitoring humanitarian risk indicators",
		Long: `VitalSigns tracks composite risk indices, disease outbreak risk,
and early-warning alerts across monitored regions. The dashboard
command opens an interactive terminal UI; the other commands print
one-shot reports suitable for scripting.`,
	}

	// --- Interactive Dashboard ---
	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive risk dashboard",
		Run:   runDashboard, // Defined in cmd_dashboard.go
	}

	// --- Regions ---
	regionsCmd = &cobra.Command{
		Use:   "regions",
		Short: "List monitored regions with their current risk levels",
		Run:   runRegions, // Defined in cmd_regions.go
	}
	regionCmd = &cobra.Command{
		Use:   "region [code]",
		Short: "Show one region's detail and risk breakdown",
		Args:  cobra.ExactArgs(1),
		Run:   runRegion, // Defined in cmd_regions.go
	}

	// --- Risk Reports ---
	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Show the global risk summary",
		Run:   runSummary, // Defined in cmd_risks.go
	}
	diseasesCmd = &cobra.Command{
		Use:   "diseases [type]",
		Short: "List per-region risk assessments for a disease",
		Args:  cobra.ExactArgs(1),
		Run:   runDiseases, // Defined in cmd_risks.go
	}
	signalsCmd = &cobra.Command{
		Use:   "signals [region-code]",
		Short: "List recent signals for a region",
		Args:  cobra.ExactArgs(1),
		Run:   runSignals, // Defined in cmd_risks.go
	}

	// --- Alerts ---
	alertsCmd = &cobra.Command{
		Use:   "alerts",
		Short: "List risk alerts",
		Run:   runAlerts, // Defined in cmd_alerts.go
	}
	ackCmd = &cobra.Command{
		Use:   "ack [alert-id]",
		Short: "Acknowledge an active alert",
		Args:  cobra.ExactArgs(1),
		Run:   runAcknowledge, // Defined in cmd_alerts.go
	}
	resolveCmd = &cobra.Command{
		Use:   "resolve [alert-id]",
		Short: "Resolve an alert, optionally marking it a false positive",
		Args:  cobra.ExactArgs(1),
		Run:   runResolve, // Defined in cmd_alerts.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "",
		"VitalSigns API base URL (overrides config and "+EnvAPIURL+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print raw JSON instead of formatted text")

	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(regionsCmd)
	regionsCmd.Flags().StringVar(&regionLevel, "level", "", "Filter by region level")
	regionsCmd.Flags().StringVar(&regionContinent, "continent", "", "Filter by continent")
	regionsCmd.Flags().StringVar(&regionParent, "parent", "", "List children of this region code")
	regionsCmd.Flags().IntVar(&regionLimit, "limit", 0, "Maximum regions to return")

	rootCmd.AddCommand(regionCmd)
	regionCmd.Flags().BoolVar(&showChildren, "children", false, "Also list direct child regions")

	rootCmd.AddCommand(summaryCmd)

	rootCmd.AddCommand(diseasesCmd)
	diseasesCmd.Flags().StringVar(&diseaseRiskLevel, "risk-level", "", "Only assessments at this risk level")
	diseasesCmd.Flags().IntVar(&diseaseLimit, "limit", 0, "Maximum assessments to return")

	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().StringVar(&signalType, "type", "", "Filter by signal type")
	signalsCmd.Flags().StringVar(&signalIndicator, "indicator", "", "Filter by indicator name")
	signalsCmd.Flags().IntVar(&signalDays, "days", 0, "Lookback window in days")
	signalsCmd.Flags().BoolVar(&asSeries, "series", false,
		"Render one indicator as a time series (requires --type and --indicator)")

	rootCmd.AddCommand(alertsCmd)
	alertsCmd.Flags().StringVar(&alertSeverity, "severity", "", "Filter by severity")
	alertsCmd.Flags().StringVar(&alertRegion, "region", "", "Filter by region code")
	alertsCmd.Flags().IntVar(&alertLimit, "limit", 0, "Maximum alerts to return")
	alertsCmd.Flags().BoolVar(&showAll, "all", false, "Include non-active alerts")
	alertsCmd.AddCommand(ackCmd)
	ackCmd.Flags().StringVar(&ackNotes, "notes", "", "Acknowledgement notes")
	alertsCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "Resolution notes")
	resolveCmd.Flags().BoolVar(&falsePositive, "false-positive", false,
		"Mark the alert as a false positive")
}
