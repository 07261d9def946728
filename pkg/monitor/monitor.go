// Package monitor runs the check suite continuously: on a cron schedule,
// with optional run history, a Prometheus metrics endpoint, and live
// configuration reload.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"probehq/proxyprobe/pkg/checks"
	"probehq/proxyprobe/pkg/client"
	"probehq/proxyprobe/pkg/config"
	"probehq/proxyprobe/pkg/history"
	"probehq/proxyprobe/pkg/telemetry/metrics"
)

// shutdownTimeout bounds the metrics server drain on exit.
const shutdownTimeout = 5 * time.Second

// Monitor drives scheduled check runs against one proxy.
type Monitor struct {
	logger     *slog.Logger
	collector  *metrics.Collector
	store      *history.Store
	out        io.Writer
	configPath string

	mu  sync.RWMutex
	cfg *config.Config
}

// Options configures a Monitor. Collector and Store are optional; ConfigPath
// enables live reload when the monitor configuration asks for it.
type Options struct {
	Logger     *slog.Logger
	Collector  *metrics.Collector
	Store      *history.Store
	Output     io.Writer
	ConfigPath string
}

// New creates a monitor from an already-validated configuration.
func New(cfg *config.Config, opts Options) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return &Monitor{
		logger:     logger.With("component", "monitor"),
		collector:  opts.Collector,
		store:      opts.Store,
		out:        out,
		configPath: opts.ConfigPath,
		cfg:        cfg,
	}
}

// RunOnce executes one suite run with the current configuration, records it
// in the history store when one is configured, and returns the report.
func (m *Monitor) RunOnce(ctx context.Context) *checks.Report {
	cfg := m.config()

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

	suite := checks.NewSuite(c, cfg, checks.Options{
		Output:  m.out,
		Metrics: m.collector,
	})
	report := suite.Run(ctx)

	passed, failed := report.Counts()
	m.logger.Info("check run complete",
		"run_id", report.ID,
		"passed", report.Passed(),
		"checks_passed", passed,
		"checks_failed", failed,
		"duration_ms", report.Duration.Milliseconds(),
	)

	if m.store != nil {
		if err := m.store.SaveReport(ctx, report); err != nil {
			m.logger.Error("failed to record run", "run_id", report.ID, "error", err)
		}
	}

	return report
}

// Run blocks until the context is cancelled, executing the suite on the
// configured schedule. When metrics are enabled it also serves the metrics
// endpoint, and when config watching is enabled it reloads the configuration
// file on change.
func (m *Monitor) Run(ctx context.Context) error {
	cfg := m.config()

	var server *http.Server
	if cfg.Telemetry.Metrics.IsEnabled() && m.collector != nil {
		server = m.newMetricsServer(cfg)
		go func() {
			m.logger.Info("metrics server listening",
				"address", server.Addr,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				m.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	scheduler := NewScheduler(cfg.Monitor.Schedule, m.logger)
	if err := scheduler.Start(ctx, func(runCtx context.Context) {
		m.RunOnce(runCtx)
	}); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if cfg.Monitor.WatchConfigEnabled() && m.configPath != "" {
		watcher, err := NewConfigWatcher(m.configPath, m.logger)
		if err != nil {
			scheduler.Stop()
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx, m.reload); err != nil {
				m.logger.Error("config watcher exited", "error", err)
			}
		}()
	}

	if cfg.Monitor.RunOnStartEnabled() {
		m.RunOnce(ctx)
	}

	<-ctx.Done()

	scheduler.Stop()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			m.logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	return nil
}

func (m *Monitor) newMetricsServer(cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Telemetry.Metrics.Path, m.collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              cfg.Monitor.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// reload re-reads the configuration file. Target and check settings take
// effect on the next run; schedule and listener changes require a restart.
func (m *Monitor) reload() error {
	cfg, err := config.LoadConfigWithEnvOverrides(m.configPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	m.logger.Info("configuration reloaded",
		"base_url", cfg.Target.BaseURL,
		"model", cfg.Checks.Model,
	)
	return nil
}

func (m *Monitor) config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}
