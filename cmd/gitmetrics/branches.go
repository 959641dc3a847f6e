package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/output"
)

var branchesCmd = &cobra.Command{
	Use:   "branches [path|url]",
	Short: "Summarize remote branches and their staleness",
	Long: `List every remote branch with its unique commit count, committers,
lifetime, idle time, and largest commit. A branch idle past the active
window is flagged inactive.

Examples:
  # All remote branches of the current directory
  gitmetrics branches

  # Stricter notion of active, as CSV
  gitmetrics branches --active-days 30 --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBranches,
}

func init() {
	branchesCmd.Flags().Int("active-days", 0, "idle days before a branch counts as inactive (0 = default)")
	branchesCmd.Flags().String("format", "table", "output format: table, json, csv")
}

func runBranches(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	activeDays, _ := cmd.Flags().GetInt("active-days")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	repo, cleanup, err := openTarget(ctx, args)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := analysis.AnalyzeBranches(ctx, repo, analysis.BranchOptions{ActiveWindowDays: activeDays}, logger)
	if err != nil {
		return err
	}
	summary := analysis.SummarizeBranches(stats)

	return output.NewBranchFormatter(format).Format(os.Stdout, repo.Path(), stats, summary)
}
