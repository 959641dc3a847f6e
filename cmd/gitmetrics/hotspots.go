package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/output"
)

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [path|url]",
	Short: "Rank files by size, churn, and contributor count",
	Long: `Score every tracked file as lines of code times revisions times distinct
authors, normalized against the repository maximum. High scores mark
large files that change often under many hands.

Examples:
  # Top ten hotspots of the current directory
  gitmetrics hotspots

  # Only count last year's commits, full list as CSV
  gitmetrics hotspots --since "1 year ago" --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHotspots,
}

func init() {
	hotspotsCmd.Flags().IntP("top", "n", 10, "rows shown in the table (json and csv always carry the full list)")
	hotspotsCmd.Flags().String("since", "", "only count commits after this date (any git-log --since syntax)")
	hotspotsCmd.Flags().String("format", "table", "output format: table, json, csv")
}

func runHotspots(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	top, _ := cmd.Flags().GetInt("top")
	since, _ := cmd.Flags().GetString("since")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if err := validateConfig(config.ValidationContextAnalyze); err != nil {
		return err
	}

	repo, cleanup, err := openTarget(ctx, args)
	if err != nil {
		return err
	}
	defer cleanup()

	ignore, err := loadIgnore(repo)
	if err != nil {
		return err
	}
	tracked, err := repo.ListFiles(ctx, cfg.Analysis.Extensions, ignore)
	if err != nil {
		return err
	}
	commits, err := repo.Log(ctx, gitrepo.LogOptions{Rev: cloneBranch, Since: since})
	if err != nil {
		return err
	}

	loc := analysis.CountLines(repo.Path(), tracked)
	hotspots := analysis.Hotspots(commits, loc, tracked, ignore)

	return output.NewHotspotFormatter(format).Format(os.Stdout, repo.Path(), hotspots, top)
}
