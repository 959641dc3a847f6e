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

var frictionCmd = &cobra.Command{
	Use:   "friction [path|url]",
	Short: "List files many people keep touching",
	Long: `Report files whose recent history involves at least the given number of
distinct authors. These are the coordination hotspots where changes
queue up behind each other.

Examples:
  # Files five or more people touched in the last year
  gitmetrics friction

  # Tighter window, lower bar
  gitmetrics friction --since "3 months ago" --min-authors 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFriction,
}

func init() {
	frictionCmd.Flags().Int("min-authors", 0, "minimum distinct authors per file (0 = configured default)")
	frictionCmd.Flags().String("since", "", "history window (any git-log --since syntax; default per config)")
	frictionCmd.Flags().String("format", "table", "output format: table, json, csv")
}

func runFriction(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	minAuthors, _ := cmd.Flags().GetInt("min-authors")
	since, _ := cmd.Flags().GetString("since")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if err := validateConfig(config.ValidationContextAnalyze); err != nil {
		return err
	}
	if minAuthors == 0 {
		minAuthors = cfg.Analysis.FrictionMinAuthors
	}
	if since == "" {
		since = cfg.Analysis.FrictionSince
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

	files := analysis.Friction(commits, tracked, minAuthors)

	return output.NewFrictionFormatter(format).Format(os.Stdout, repo.Path(), files, minAuthors)
}
