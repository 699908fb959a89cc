// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vitalsigns-project/vitalsigns/services/dashboard"
	"github.com/vitalsigns-project/vitalsigns/services/store"
)

// runDashboard opens the interactive TUI. The cache, client, and
// optional metrics endpoint all live for the duration of the program.
func runDashboard(cmd *cobra.Command, args []string) {
	apiClient := newAPIClient()

	storeOpts := []store.Option{store.WithLogger(logger)}
	addr := metricsAddr
	if addr == "" {
		addr = config.Metrics.Addr
	}
	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		storeOpts = append(storeOpts, store.WithMetrics(store.NewMetrics(reg)))
		go serveMetrics(addr, reg)
	}

	cache := store.New(storeOpts...)
	defer cache.Close()

	app := dashboard.NewApp(apiClient, cache, logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(CLIExitError)
	}
}

// serveMetrics exposes the cache metrics for scraping. Failures log
// and return; the dashboard works without metrics.
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
