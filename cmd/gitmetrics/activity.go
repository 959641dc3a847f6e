package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/output"
)

var activityCmd = &cobra.Command{
	Use:   "activity [path|url]",
	Short: "Show lifetime and recent repository activity",
	Long: `Print the repository's lifetime totals (commits, contributors, branches,
tags) next to churn over a trailing window.

Examples:
  # Last 30 days against lifetime totals
  gitmetrics activity

  # Wider window
  gitmetrics activity --days 90`,
	Args: cobra.MaximumNArgs(1),
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().Int("days", 0, "trailing window in days (0 = configured default)")
	activityCmd.Flags().String("format", "table", "output format: table, json, csv")
}

func runActivity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	days, _ := cmd.Flags().GetInt("days")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if days == 0 {
		days = cfg.Analysis.ActivityWindowDays
	}

	repo, cleanup, err := openTarget(ctx, args)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := analysis.ComputeActivity(ctx, repo, days)
	if err != nil {
		return err
	}

	return output.NewActivityFormatter(format).Format(os.Stdout, repo.Path(), summary)
}
