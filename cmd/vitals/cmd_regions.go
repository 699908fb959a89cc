// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalsigns-project/vitalsigns/pkg/risk"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

// commandTimeout bounds every one-shot command's API call.
const commandTimeout = 30 * time.Second

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// runRegions lists monitored regions, optionally narrowed by level,
// continent, or parent.
func runRegions(cmd *cobra.Command, args []string) {
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	var list *client.RegionList
	var err error
	if regionParent != "" {
		list, err = apiClient.ListRegionChildren(ctx, regionParent)
	} else {
		list, err = apiClient.ListRegions(ctx, client.RegionFilter{
			Level:     regionLevel,
			Continent: regionContinent,
			Limit:     regionLimit,
		})
	}
	if err != nil {
		os.Exit(OutputError(jsonOutput, "list regions", err))
	}

	if jsonOutput {
		if err := OutputJSON(list); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}

	fmt.Printf("%d regions\n\n", list.Total)
	fmt.Printf("%-8s %-28s %-10s %-12s %6s\n", "CODE", "NAME", "LEVEL", "RISK", "INDEX")
	for _, r := range list.Regions {
		index := "-"
		level := "-"
		if r.CurrentVitalRiskIndex != nil {
			index = fmt.Sprintf("%.1f", *r.CurrentVitalRiskIndex)
		}
		if r.CurrentRiskLevel != "" {
			level = levelBadge(r.CurrentRiskLevel)
		}
		fmt.Printf("%-8s %-28s %-10s %-12s %6s\n", r.Code, r.Name, r.Level, level, index)
	}
}

// runRegion prints one region's detail record and risk breakdown.
func runRegion(cmd *cobra.Command, args []string) {
	code := args[0]
	apiClient := newAPIClient()
	ctx, cancel := commandContext()
	defer cancel()

	detail, err := apiClient.GetRegion(ctx, code)
	if err != nil {
		os.Exit(OutputError(jsonOutput, "get region "+code, err))
	}
	risks, risksErr := apiClient.RegionRisks(ctx, code)

	if jsonOutput {
		payload := map[string]any{"region": detail}
		if risksErr == nil {
			payload["risks"] = risks
		}
		if err := OutputJSON(payload); err != nil {
			os.Exit(OutputError(false, "encode output", err))
		}
		return
	}

	fmt.Printf("%s (%s)\n", detail.Name, detail.Code)
	fmt.Printf("  level: %s", detail.Level)
	if detail.Continent != "" {
		fmt.Printf("  continent: %s", detail.Continent)
	}
	if detail.Population != nil {
		fmt.Printf("  population: %d", *detail.Population)
	}
	fmt.Println()
	if detail.ActiveAlertsCount > 0 {
		fmt.Printf("  active alerts: %d\n", detail.ActiveAlertsCount)
	}

	switch {
	case risksErr != nil:
		fmt.Printf("\nrisk breakdown unavailable: %v\n", risksErr)
	default:
		composite := risks.CompositeRisk
		fmt.Printf("\nvital risk index: %.1f (%s)\n",
			composite.VitalRiskIndex, levelBadge(composite.RiskLevel))
		fmt.Printf("  hunger stress:  %5.1f\n", composite.HungerStressIndex)
		fmt.Printf("  health strain:  %5.1f\n", composite.HealthSystemStrainIndex)
		fmt.Printf("  disease risk:   %5.1f\n", composite.DiseaseOutbreakIndex)
		if len(risks.DiseaseRisks) > 0 {
			fmt.Println("\ndisease risks:")
			for _, dr := range risks.DiseaseRisks {
				fmt.Printf("  %-12s %5.1f %s %s\n",
					dr.DiseaseType, dr.RiskScore,
					levelBadge(dr.RiskLevel), risk.TrendGlyph(dr.TrendDirection))
			}
		}
	}

	if showChildren {
		children, err := apiClient.ListRegionChildren(ctx, code)
		if err != nil {
			fmt.Printf("\nchildren unavailable: %v\n", err)
			return
		}
		fmt.Printf("\nchildren (%d):\n", children.Total)
		for _, child := range children.Regions {
			level := "-"
			if child.CurrentRiskLevel != "" {
				level = levelBadge(child.CurrentRiskLevel)
			}
			fmt.Printf("  %-8s %-28s %s\n", child.Code, child.Name, level)
		}
	}
}
