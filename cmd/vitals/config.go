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

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// defaultAPIURL is used when neither config.yaml nor VITALS_API_URL
// provides one.
const defaultAPIURL = "http://localhost:8000"

// Config is the CLI configuration, loaded from config.yaml when it
// exists. Every field has a working default so a bare `vitals` run
// against a local API needs no file at all.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url" validate:"required,url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=1,lte=300"`
	} `yaml:"api"`

	Logging struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Dir   string `yaml:"dir"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

func defaultConfig() Config {
	var c Config
	c.API.BaseURL = defaultAPIURL
	c.API.TimeoutSeconds = 15
	c.Logging.Level = "info"
	return c
}

// loadConfig reads the config file, applies environment overrides, and
// validates the result. A missing file is not an error; a malformed or
// invalid one is.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
		if c.API.BaseURL == "" {
			c.API.BaseURL = defaultAPIURL
		}
		if c.API.TimeoutSeconds == 0 {
			c.API.TimeoutSeconds = 15
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return c, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnvOverrides(&c)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}
