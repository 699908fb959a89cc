// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://risk.example.org
  timeout_seconds: 30
logging:
  level: debug
  json: true
metrics:
  addr: ":9090"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://risk.example.org", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadConfig_MalformedYAMLFails(t *testing.T) {
	path := writeConfig(t, "api: [not a map")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidURLFails(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "not a url"
`)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidLevelFails(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: loud
`)
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://from-file.example.org
`)
	t.Setenv(EnvAPIURL, "https://from-env.example.org")
	t.Setenv(EnvLogDir, "/tmp/vitals-logs")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.org", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/vitals-logs", cfg.Logging.Dir)
}

func TestApplyEnvOverrides_EmptyValuesIgnored(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	cfg := defaultConfig()
	cfg.API.BaseURL = "https://keep.example.org"
	applyEnvOverrides(&cfg)
	assert.Equal(t, "https://keep.example.org", cfg.API.BaseURL)
}

func TestParseAlertID_ParsesPositiveInteger(t *testing.T) {
	// parseAlertID exits the process on bad input, so only the happy
	// path is exercised directly.
	assert.Equal(t, 42, parseAlertID("42"))
}
