// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// runSummary prints the global risk summary.
func runSummary(cmd *cobra.Command, args []string) {
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	summary, err := apiClient.RiskSummary(ctx, client.SummaryFilter{})
	if err != nil {
		os.Exit(OutputError(jsonOutput, "risk summary", err))
	}

	if jsonOutput {
		if err := OutputJSON(summary); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}

	fmt.Printf("%d regions monitored\n\n", summary.TotalRegions)
	rows := []struct {
		label string
		count int
	}{
		{"critical", summary.CriticalCount},
		{"high", summary.HighCount},
		{"moderate", summary.ModerateCount},
		{"low", summary.LowCount},
		{"minimal", summary.MinimalCount},
	}
	for _, row := range rows {
		pct := 0.0
		if summary.TotalRegions > 0 {
			pct = float64(row.count) / float64(summary.TotalRegions) * 100
		}
		fmt.Printf("  %-12s %4d  %5.1f%%\n", levelBadge(row.label), row.count, pct)
	}

	if len(summary.TopRiskRegions) > 0 {
		fmt.Println("\nhighest risk regions:")
		for _, r := range summary.TopRiskRegions {
			fmt.Printf("  %-8s %-28s %5.1f %s\n",
				r.RegionCode, r.RegionName, r.VitalRiskIndex, levelBadge(r.RiskLevel))
		}
	}
}

// runDiseases lists per-region assessments for one disease type.
func runDiseases(cmd *cobra.Command, args []string) {
	diseaseType := args[0]
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	assessments, err := apiClient.DiseaseRisks(ctx, diseaseType, client.DiseaseFilter{
		RiskLevel: diseaseRiskLevel,
		Limit:     diseaseLimit,
	})
	if err != nil {
		os.Exit(OutputError(jsonOutput, "disease risks for "+diseaseType, err))
	}

	if jsonOutput {
		if err := OutputJSON(assessments); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}

	if len(assessments) == 0 {
		fmt.Printf("no %s assessments\n", diseaseType)
		return
	}
	fmt.Printf("%s risk (%d assessments)\n\n", diseaseType, len(assessments))
	for _, a := range assessments {
		season := ""
		if a.IsHighSeason {
			season = "high season"
		}
		fmt.Printf("  %5.1f %-12s %s\n", a.RiskScore, levelBadge(a.RiskLevel), season)
	}
}

// runSignals lists a region's recent signals, or renders one indicator
// as a time series with --series.
func runSignals(cmd *cobra.Command, args []string) {
	code := args[0]
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	filter := client.SignalFilter{
		SignalType: signalType,
		Indicator:  signalIndicator,
		Days:       signalDays,
	}

	if asSeries {
		series, err := apiClient.SignalTimeSeries(ctx, code, filter)
		if err != nil {
			os.Exit(OutputError(jsonOutput, "signal time series", err))
		}
		if jsonOutput {
			if err := OutputJSON(series); err != nil {
				os.Exit(OutputError(false, "encode output", err))
			}
			return
		}
		fmt.Printf("%s / %s for %s", series.SignalType, series.IndicatorName, series.RegionCode)
		if series.Unit != "" {
			fmt.Printf(" (%s)", series.Unit)
		}
		fmt.Println()
		for _, p := range series.DataPoints {
			anomaly := ""
			if p.IsAnomaly {
				anomaly = "  ANOMALY"
			}
			fmt.Printf("  %s  %10.2f  conf %.0f%%%s\n", p.Date, p.Value, p.Confidence*100, anomaly)
		}
		if series.Mean != nil {
			fmt.Printf("\nmean %.2f", *series.Mean)
			if series.Std != nil {
				fmt.Printf(" ± %.2f", *series.Std)
			}
			if series.Trend != "" {
				fmt.Printf("  trend: %s", series.Trend)
			}
			fmt.Println()
		}
		return
	}

	signals, err := apiClient.RegionSignals(ctx, code, filter)
	if err != nil {
		os.Exit(OutputError(jsonOutput, "signals for "+code, err))
	}
	if jsonOutput {
		if err := OutputJSON(signals); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}
	if len(signals) == 0 {
		fmt.Printf("no signals for %s\n", code)
		return
	}
	for _, s := range signals {
		anomaly := " "
		if s.IsAnomaly {
			anomaly = "!"
		}
		fmt.Printf("%s %-24s %10.2f %-6s %s (%s)\n",
			anomaly, s.IndicatorName, s.Value, s.Unit, s.ObservationDate, s.SourceName)
	}
}
