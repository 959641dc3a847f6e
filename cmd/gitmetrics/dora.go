package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/output"
)

var doraCmd = &cobra.Command{
	Use:   "dora [path|url]",
	Short: "Estimate the four DORA metrics from git history",
	Long: `Derive deployment frequency, lead time for changes, change failure
rate, and time to restore from tags, merges, and commit subjects.
Release tags stand in for deployments when present, merge commits
otherwise; fix-like subjects stand in for failures. Treat the numbers
as estimates, the real ones live in CI/CD and incident systems.

Examples:
  # Full history of the current branch
  gitmetrics dora

  # Last quarter on main
  gitmetrics dora --branch main --start 2026-04-01 --end 2026-06-30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDORA,
}

func init() {
	doraCmd.Flags().String("start", "", "window start (YYYY-MM-DD; default first commit)")
	doraCmd.Flags().String("end", "", "window end (YYYY-MM-DD; default now)")
	doraCmd.Flags().String("format", "table", "output format: table, json, csv")
}

func runDORA(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	start, err := parseDay(startFlag)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseDay(endFlag)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	repo, cleanup, err := openTarget(ctx, args)
	if err != nil {
		return err
	}
	defer cleanup()

	metrics, err := analysis.ComputeDORA(ctx, repo, analysis.DORAOptions{
		Branch: cloneBranch,
		Start:  start,
		End:    end,
	})
	if err != nil {
		return err
	}

	return output.NewDORAFormatter(format).Format(os.Stdout, repo.Path(), metrics)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
