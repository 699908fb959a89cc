// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import "os"

// Environment variables recognized by the CLI. Each overrides the
// corresponding config.yaml field.
const (
	// EnvAPIURL overrides api.base_url.
	EnvAPIURL = "VITALS_API_URL"

	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "VITALS_LOG_LEVEL"

	// EnvLogDir overrides logging.dir.
	EnvLogDir = "VITALS_LOG_DIR"

	// EnvMetricsAddr overrides metrics.addr.
	EnvMetricsAddr = "VITALS_METRICS_ADDR"
)

// applyEnvOverrides copies set environment variables over the loaded
// configuration. Empty values are ignored so `VITALS_API_URL= vitals`
// does not blank out the config file's URL.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		c.Logging.Dir = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
}
