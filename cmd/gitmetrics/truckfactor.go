package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/llm"
	"github.com/thoughtful-solutions/metrics/internal/output"
	"github.com/thoughtful-solutions/metrics/internal/ownership"
	"github.com/thoughtful-solutions/metrics/internal/storage"
)

var truckfactorCmd = &cobra.Command{
	Use:   "truckfactor [path|url]",
	Short: "Simulate contributor loss and compute the truck factor",
	Long: `Attribute every tracked line to an author, give each file a primary
owner, then greedily remove the contributor whose absence orphans the
most files until the threshold share of owned files has no surviving
owner. The number of removals is the truck factor.

Examples:
  # Analyze the current directory
  gitmetrics truckfactor

  # Analyze a fresh clone of a remote repository
  gitmetrics truckfactor https://github.com/acme/widgets.git

  # Stop the simulation at 75% orphaned files and keep the run
  gitmetrics truckfactor --threshold 0.75 --save

  # Add an LLM narrative of the result
  gitmetrics truckfactor --explain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTruckFactor,
}

func init() {
	truckfactorCmd.Flags().Float64("threshold", 0, "orphaned-file share in (0,1] that stops the simulation (0 = configured default)")
	truckfactorCmd.Flags().String("format", "table", "output format: table, json, csv")
	truckfactorCmd.Flags().Bool("save", false, "record the run in the configured store")
	truckfactorCmd.Flags().Bool("explain", false, "generate an LLM narrative of the result")
}

func runTruckFactor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	formatFlag, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")
	explain, _ := cmd.Flags().GetBool("explain")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if err := validateConfig(config.ValidationContextAnalyze); err != nil {
		return err
	}
	if threshold == 0 {
		threshold = cfg.Analysis.OrphanThreshold
	}

	repo, cleanup, err := openTarget(ctx, args)
	if err != nil {
		return err
	}
	defer cleanup()

	provider, closeProvider, err := newHistoryProvider(ctx, repo)
	if err != nil {
		return err
	}
	defer closeProvider()

	report, err := ownership.NewEngine(provider, logger).ComputeOwnershipRisk(ctx, ownership.Options{
		OrphanThreshold: threshold,
		Workers:         cfg.Analysis.Workers,
	})
	if err != nil {
		return err
	}
	classified := analysis.NewTruckFactorReport(report)

	if err := output.NewTruckFactorFormatter(format).Format(os.Stdout, repo.Path(), classified); err != nil {
		return err
	}

	if save {
		if err := saveRun(ctx, repo, report); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}
	if explain {
		if err := explainReport(ctx, repo.Path(), report); err != nil {
			logger.WithError(err).Warn("Narrative generation failed")
		}
	}
	return nil
}

func saveRun(ctx context.Context, repo *gitrepo.Repository, report *ownership.Report) error {
	head, err := repo.HeadSHA(ctx)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	run := storage.NewRun(repo.Path(), head, report)
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	return nil
}

func explainReport(ctx context.Context, repo string, report *ownership.Report) error {
	llmCfg := cfg.LLM
	resolveLLMKey(&llmCfg)

	client, err := llm.NewClient(ctx, llmCfg, logger)
	if err != nil {
		return err
	}
	if !client.Enabled() {
		return fmt.Errorf("no LLM provider configured (run 'gitmetrics configure')")
	}

	narrative, err := llm.Narrative(ctx, client, repo, report)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n", narrative)
	return nil
}
