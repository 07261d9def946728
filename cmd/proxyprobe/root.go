package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"probehq/proxyprobe/pkg/config"
	"probehq/proxyprobe/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "proxyprobe",
	Short: "Smoke checks for OpenAI-compatible AI proxies",
	Long: `Proxyprobe runs a fixed suite of smoke checks against an AI proxy that
exposes the OpenAI-compatible HTTP surface.

The suite covers:
  - the /health endpoint
  - model listing via /v1/models
  - a non-streaming chat completion
  - a streaming chat completion (server-sent events)
  - a chat completion carrying a system prompt

A failing health check aborts the run; every other check is fault-isolated,
so one failure never hides the results of the rest.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the config file, falling back to built-in defaults plus
// environment overrides when the file does not exist.
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(cfgFile)
}

// setupLogging installs the default logger per the telemetry configuration.
// The --verbose flag forces debug level.
func setupLogging(cfg *config.Config) error {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
