package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"probehq/proxyprobe/pkg/cli"
	"probehq/proxyprobe/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded check runs",
	Long:  `List, show, and prune check runs recorded in the history store.`,
}

var historyListFlags struct {
	limit      int
	onlyFailed bool
	since      time.Duration
	format     string
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Long: `List recorded check runs, newest first.

Examples:
  # Show the last 20 runs
  proxyprobe history list

  # Show failed runs from the last day
  proxyprobe history list --failed --since 24h

  # Machine-readable output
  proxyprobe history list --format json`,
	RunE: runHistoryList,
}

var historyShowFlags struct {
	format string
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its per-check results",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneFlags struct {
	olderThan time.Duration
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a cutoff",
	Long: `Delete recorded runs that started before the given age.

Examples:
  # Drop everything older than 30 days
  proxyprobe history prune --older-than 720h`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().IntVar(&historyListFlags.limit, "limit", history.DefaultQueryLimit, "maximum runs to list")
	historyListCmd.Flags().BoolVar(&historyListFlags.onlyFailed, "failed", false, "list only failed runs")
	historyListCmd.Flags().DurationVar(&historyListFlags.since, "since", 0, "only runs newer than this age (e.g. 24h)")
	historyListCmd.Flags().StringVar(&historyListFlags.format, "format", "text", "output format (text, json)")

	historyShowCmd.Flags().StringVar(&historyShowFlags.format, "format", "text", "output format (text, json)")

	historyPruneCmd.Flags().DurationVar(&historyPruneFlags.olderThan, "older-than", 30*24*time.Hour, "delete runs older than this age")
}

// openHistoryStore opens the store configured for the current config file.
func openHistoryStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, fmt.Sprintf("failed to load config: %v", err))
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query := history.Query{
		Limit:      historyListFlags.limit,
		OnlyFailed: historyListFlags.onlyFailed,
	}
	if historyListFlags.since > 0 {
		query.Since = time.Now().Add(-historyListFlags.since)
	}

	summaries, err := store.ListRuns(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	if cli.OutputFormat(historyListFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-8s  %-6s  %s\n", "RUN ID", "STARTED", "RESULT", "CHECKS", "DURATION")
	for _, summary := range summaries {
		result := "fail"
		if summary.Passed {
			result = "pass"
		}
		fmt.Printf("%-36s  %-20s  %-8s  %d/%d    %s\n",
			summary.ID,
			summary.StartedAt.Format("2006-01-02 15:04:05"),
			result,
			summary.ChecksTotal-summary.ChecksFailed,
			summary.ChecksTotal,
			summary.Duration,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	if run == nil {
		return cli.NewCommandError("history show", fmt.Errorf("run %q not found", args[0]))
	}

	if cli.OutputFormat(historyShowFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, run)
	}

	result := "fail"
	if run.Passed {
		result = "pass"
	}
	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Printf("Duration: %s\n", run.Duration)
	fmt.Printf("Result:   %s (%d/%d checks passed)\n\n",
		result, run.ChecksTotal-run.ChecksFailed, run.ChecksTotal)

	for _, res := range run.Results {
		marker := "✓"
		if res.Status != "pass" {
			marker = "✗"
		}
		fmt.Printf("%s %-14s %-8s %s\n", marker, res.Check, res.Duration, res.Detail)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(context.Background(), time.Now().Add(-historyPruneFlags.olderThan))
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Printf("✓ Pruned %d runs\n", deleted)
	return nil
}
