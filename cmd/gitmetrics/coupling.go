package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/graph"
	"github.com/thoughtful-solutions/metrics/internal/output"
)

var couplingCmd = &cobra.Command{
	Use:   "coupling [path|url]",
	Short: "Find files that change together",
	Long: `Walk the commit history and report file pairs whose average co-change
percentage clears the threshold. Coupled files that share no import or
call relationship usually share a hidden one.

Examples:
  # Pairs above the configured threshold
  gitmetrics coupling

  # Lower the bar and export the pairs to Neo4j
  gitmetrics coupling --threshold 20 --export-graph`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoupling,
}

func init() {
	couplingCmd.Flags().Float64("threshold", 0, "minimum average coupling percentage reported (0 = configured default)")
	couplingCmd.Flags().String("format", "table", "output format: table, json, csv")
	couplingCmd.Flags().Bool("export-graph", false, "export the pairs to the configured Neo4j instance")
}

func runCoupling(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	formatFlag, _ := cmd.Flags().GetString("format")
	exportGraph, _ := cmd.Flags().GetBool("export-graph")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if err := validateConfig(config.ValidationContextAnalyze); err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.Analysis.CouplingThreshold
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
	commits, err := repo.Log(ctx, gitrepo.LogOptions{Rev: cloneBranch})
	if err != nil {
		return err
	}

	pairs := analysis.Coupling(commits, tracked, ignore, threshold)

	if err := output.NewCouplingFormatter(format).Format(os.Stdout, repo.Path(), pairs, threshold); err != nil {
		return err
	}

	if exportGraph {
		if err := exportCoupling(ctx, repo.Path(), pairs); err != nil {
			return fmt.Errorf("export graph: %w", err)
		}
	}
	return nil
}

func exportCoupling(ctx context.Context, repo string, pairs []analysis.CouplingPair) error {
	if err := validateConfig(config.ValidationContextGraph); err != nil {
		return err
	}
	g := cfg.Graph
	exporter, err := graph.NewExporter(ctx, g.URI, g.User, g.Password, g.Database, logger)
	if err != nil {
		return err
	}
	defer exporter.Close(ctx)

	if err := exporter.ExportCoupling(ctx, repo, pairs); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d coupled pairs to %s\n", len(pairs), g.URI)
	return nil
}
