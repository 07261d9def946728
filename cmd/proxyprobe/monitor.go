package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"probehq/proxyprobe/pkg/cli"
	"probehq/proxyprobe/pkg/config"
	"probehq/proxyprobe/pkg/history"
	"probehq/proxyprobe/pkg/monitor"
	"probehq/proxyprobe/pkg/telemetry/metrics"
)

var monitorFlags struct {
	schedule      string
	listenAddress string
	runOnStart    bool
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the check suite continuously on a schedule",
	Long: `Run the smoke check suite on a cron schedule until interrupted.

When metrics are enabled the monitor serves a Prometheus endpoint, and when
config watching is enabled it reloads the configuration file on change.
Runs are recorded in the history store when one is configured.

Examples:
  # Run every five minutes (the default schedule)
  proxyprobe monitor

  # Run hourly and check immediately on startup
  proxyprobe monitor --schedule "0 * * * *" --run-on-start

  # Serve metrics on another address
  proxyprobe monitor --listen 0.0.0.0:9430`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorFlags.schedule, "schedule", "", "override cron schedule")
	monitorCmd.Flags().StringVarP(&monitorFlags.listenAddress, "listen", "l", "", "override metrics listen address")
	monitorCmd.Flags().BoolVar(&monitorFlags.runOnStart, "run-on-start", false, "run the suite immediately on startup")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("failed to load config: %v", err))
	}
	applyMonitorOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	if err := setupLogging(cfg); err != nil {
		return cli.NewConfigError(cfgFile, fmt.Sprintf("failed to set up logging: %v", err))
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.IsEnabled() {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		slog.Warn("run history unavailable", "error", err)
	} else {
		defer store.Close()
	}

	m := monitor.New(cfg, monitor.Options{
		Logger:     slog.Default(),
		Collector:  collector,
		Store:      store,
		ConfigPath: cfgFile,
	})

	fmt.Printf("Proxyprobe monitor v%s\n", Version)
	fmt.Printf("Target: %s\n", cfg.Target.BaseURL)
	fmt.Printf("Schedule: %s\n", cfg.Monitor.Schedule)
	if cfg.Telemetry.Metrics.IsEnabled() {
		fmt.Printf("Metrics: http://%s%s\n", cfg.Monitor.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	ctx := cli.SetupSignalHandler()
	if err := m.Run(ctx); err != nil {
		return cli.NewCommandError("monitor", err)
	}

	fmt.Println("✓ Monitor stopped")
	return nil
}

// applyMonitorOverrides applies flag overrides and the monitor-mode
// invariants: every scheduled run is recorded, so history is always on here
// regardless of the one-shot history.enabled switch.
func applyMonitorOverrides(cfg *config.Config) {
	if monitorFlags.schedule != "" {
		cfg.Monitor.Schedule = monitorFlags.schedule
	}
	if monitorFlags.listenAddress != "" {
		cfg.Monitor.ListenAddress = monitorFlags.listenAddress
	}
	if monitorFlags.runOnStart {
		cfg.Monitor.RunOnStart = config.Bool(true)
	}
	cfg.History.Enabled = true
}
