package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"probehq/proxyprobe/pkg/checks"
	"probehq/proxyprobe/pkg/cli"
	"probehq/proxyprobe/pkg/client"
	"probehq/proxyprobe/pkg/config"
	"probehq/proxyprobe/pkg/history"
)

var checkFlags struct {
	baseURL   string
	apiKey    string
	provider  string
	model     string
	timeout   time.Duration
	strict    bool
	noHistory bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the smoke check suite once",
	Long: `Run the five smoke checks against the configured proxy and print a
transcript of each.

The health check runs first; if the server is unreachable the run aborts.
Every other check is fault-isolated. The command always exits 0 unless
--strict is set, in which case any failed check fails the command.

Examples:
  # Run against the default target
  proxyprobe check

  # Run against another proxy with a different model
  proxyprobe check --base-url http://proxy.example.com:3000 --model gpt-4o

  # Fail the process when any check fails (for CI)
  proxyprobe check --strict`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.baseURL, "base-url", "", "override target base URL")
	checkCmd.Flags().StringVar(&checkFlags.apiKey, "api-key", "", "override API key")
	checkCmd.Flags().StringVar(&checkFlags.provider, "provider", "", "override provider-selector header value")
	checkCmd.Flags().StringVar(&checkFlags.model, "model", "", "override model identifier")
	checkCmd.Flags().DurationVar(&checkFlags.timeout, "timeout", 0, "override per-request timeout")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "exit non-zero when any check fails")
	checkCmd.Flags().BoolVar(&checkFlags.noHistory, "no-history", false, "skip recording this run")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("failed to load config: %v", err))
	}
	applyCheckOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("failed to set up logging: %v", err))
	}

	c := client.New(client.Config{
		BaseURL:             cfg.Target.BaseURL,
		APIKey:              cfg.Target.APIKey,
		Provider:            cfg.Target.Provider,
		Timeout:             cfg.Target.Timeout,
		MaxIdleConns:        cfg.Target.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Target.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Target.IdleConnTimeout,
	})
	defer c.Close()

	var store *history.Store
	if cfg.History.Enabled && !checkFlags.noHistory {
		store, err = history.NewStore(cfg.History)
		if err != nil {
			slog.Warn("run history unavailable", "error", err)
		} else {
			defer store.Close()
		}
	}

	ctx := cli.SetupSignalHandler()

	suite := checks.NewSuite(c, cfg, checks.Options{})
	report := suite.Run(ctx)

	if store != nil {
		if err := store.SaveReport(context.Background(), report); err != nil {
			slog.Warn("failed to record run", "run_id", report.ID, "error", err)
		}
	}

	if checkFlags.strict && !report.Passed() {
		return cli.NewCommandError("check", errors.New("one or more checks failed"))
	}
	return nil
}

func applyCheckOverrides(cfg *config.Config) {
	if checkFlags.baseURL != "" {
		cfg.Target.BaseURL = checkFlags.baseURL
	}
	if checkFlags.apiKey != "" {
		cfg.Target.APIKey = checkFlags.apiKey
	}
	if checkFlags.provider != "" {
		cfg.Target.Provider = checkFlags.provider
	}
	if checkFlags.model != "" {
		cfg.Checks.Model = checkFlags.model
	}
	if checkFlags.timeout > 0 {
		cfg.Target.Timeout = checkFlags.timeout
	}
}
