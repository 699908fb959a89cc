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
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalsigns-project/vitalsigns/pkg/logging"
	"github.com/vitalsigns-project/vitalsigns/services/client"
)

var (
	config Config
	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(CLIExitError)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(CLIExitError)
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		config = cfg

		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(config.Logging.Level),
			LogDir:  config.Logging.Dir,
			Service: "vitals",
			JSON:    config.Logging.JSON,
			// The TUI owns the terminal; stderr noise corrupts it.
			Quiet: cmd.Name() == "dashboard",
		})
	}
}

// newAPIClient builds the typed client from the loaded configuration.
func newAPIClient() *client.Client {
	return client.New(config.API.BaseURL,
		client.WithTimeout(time.Duration(config.API.TimeoutSeconds)*time.Second),
		client.WithLogger(logger),
	)
}
