package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/github"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/llm"
	"github.com/thoughtful-solutions/metrics/internal/output"
	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

var reportCmd = &cobra.Command{
	Use:   "report [path|url]",
	Short: "Write a self-contained HTML ownership report",
	Long: `Run the truck factor simulation plus the hotspot ranking and render both
into a single HTML file with no external assets. When the repository's
origin points at GitHub, repository facts are pulled in; with an LLM
configured, --explain adds a narrative.

Examples:
  gitmetrics report --output risk.html --open
  gitmetrics report https://github.com/acme/widgets.git --explain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringP("output", "o", "gitmetrics-report.html", "output file")
	reportCmd.Flags().Bool("open", false, "open the report in a browser")
	reportCmd.Flags().Int("top", 10, "hotspots included in the report")
	reportCmd.Flags().Bool("explain", false, "include an LLM narrative")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	outPath, _ := cmd.Flags().GetString("output")
	openAfter, _ := cmd.Flags().GetBool("open")
	top, _ := cmd.Flags().GetInt("top")
	explain, _ := cmd.Flags().GetBool("explain")

	if err := validateConfig(config.ValidationContextAnalyze); err != nil {
		return err
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
		OrphanThreshold: cfg.Analysis.OrphanThreshold,
		Workers:         cfg.Analysis.Workers,
	})
	if err != nil {
		return err
	}

	hotspots, err := reportHotspots(ctx, repo, top)
	if err != nil {
		return err
	}

	head, err := repo.HeadSHA(ctx)
	if err != nil {
		head = ""
	}

	data := &output.ReportData{
		Repo:        repo.Path(),
		CommitSHA:   head,
		GeneratedAt: time.Now(),
		TruckFactor: analysis.NewTruckFactorReport(report),
		Hotspots:    hotspots,
	}
	data.Enrichment = enrichFromGitHub(ctx, repo)

	if explain {
		narrative, err := reportNarrative(ctx, repo.Path(), report)
		if err != nil {
			logger.WithError(err).Warn("Narrative generation failed, report continues without it")
		} else {
			data.Narrative = narrative
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := output.WriteHTMLReport(f, data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", outPath)
	if openAfter {
		if err := browser.OpenFile(outPath); err != nil {
			logger.WithError(err).Warn("Could not open browser")
		}
	}
	return nil
}

func reportHotspots(ctx context.Context, repo *gitrepo.Repository, top int) ([]analysis.Hotspot, error) {
	ignore, err := loadIgnore(repo)
	if err != nil {
		return nil, err
	}
	tracked, err := repo.ListFiles(ctx, cfg.Analysis.Extensions, ignore)
	if err != nil {
		return nil, err
	}
	commits, err := repo.Log(ctx, gitrepo.LogOptions{Rev: cloneBranch})
	if err != nil {
		return nil, err
	}

	hotspots := analysis.Hotspots(commits, analysis.CountLines(repo.Path(), tracked), tracked, ignore)
	if top > 0 && len(hotspots) > top {
		hotspots = hotspots[:top]
	}
	return hotspots, nil
}

// enrichFromGitHub pulls repository facts when origin points at GitHub.
// Best effort only: any failure just leaves the section out.
func enrichFromGitHub(ctx context.Context, repo *gitrepo.Repository) *github.Enrichment {
	url, err := repo.RemoteURL(ctx)
	if err != nil || url == "" {
		return nil
	}
	host, owner, name, err := gitrepo.ParseRemoteURL(url)
	if err != nil || host != "github.com" {
		return nil
	}

	token := cfg.GitHub.Token
	if token == "" {
		if t, err := config.NewCredentialManager().GetGitHubToken(); err == nil {
			token = t
		}
	}

	enrichment, err := github.NewClient(token, cfg.GitHub.RateLimit, logger).Enrich(ctx, owner, name)
	if err != nil {
		logger.WithError(err).Debug("GitHub enrichment skipped")
		return nil
	}
	return enrichment
}

func reportNarrative(ctx context.Context, repo string, report *ownership.Report) (string, error) {
	llmCfg := cfg.LLM
	resolveLLMKey(&llmCfg)

	client, err := llm.NewClient(ctx, llmCfg, logger)
	if err != nil {
		return "", err
	}
	if !client.Enabled() {
		return "", fmt.Errorf("no LLM provider configured (run 'gitmetrics configure')")
	}
	return llm.Narrative(ctx, client, repo, report)
}
