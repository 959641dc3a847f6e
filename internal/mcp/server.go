// Package mcp exposes the analyses to editor agents over the Model Context
// Protocol's stdio transport, so an assistant can ask for ownership risk or
// hotspots of a repository it is working in.
package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/cache"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

// Server serves analysis tools over stdio.
type Server struct {
	cfg     *config.Config
	logger  *logrus.Logger
	version string
}

// NewServer creates a server bound to the given configuration.
func NewServer(cfg *config.Config, logger *logrus.Logger, version string) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{cfg: cfg, logger: logger, version: version}
}

// Run registers the tools and serves until the context ends or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "gitmetrics",
		Version: s.version,
	}, nil)

	sdk.AddTool(server, &sdk.Tool{
		Name: "truck_factor",
		Description: "Compute the truck factor of a local git repository: how many " +
			"key contributors must leave before half the owned files have no remaining " +
			"line-ownership. Returns the factor and the simulated removals.",
	}, s.truckFactor)

	sdk.AddTool(server, &sdk.Tool{
		Name: "hotspots",
		Description: "Rank a repository's source files by hotspot score " +
			"(lines of code times revisions times distinct authors).",
	}, s.hotspots)

	s.logger.WithField("version", s.version).Info("mcp server listening on stdio")
	return server.Run(ctx, &sdk.StdioTransport{})
}

// TruckFactorInput selects the repository and optionally overrides the
// configured orphan threshold.
type TruckFactorInput struct {
	Path      string  `json:"path" jsonschema:"path to a local git repository"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"orphan threshold in (0,1]; 0 uses the configured default"`
}

func (s *Server) truckFactor(ctx context.Context, req *sdk.CallToolRequest, input TruckFactorInput) (*sdk.CallToolResult, *ownership.Report, error) {
	threshold := input.Threshold
	if threshold == 0 {
		threshold = s.cfg.Analysis.OrphanThreshold
	}

	repo, err := gitrepo.Open(ctx, input.Path, s.logger)
	if err != nil {
		return nil, nil, err
	}

	provider, cleanup, err := s.newProvider(ctx, repo)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	report, err := ownership.NewEngine(provider, s.logger).ComputeOwnershipRisk(ctx, ownership.Options{
		OrphanThreshold: threshold,
		Workers:         s.cfg.Analysis.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, report, nil
}

// HotspotsInput selects the repository and bounds the result list.
type HotspotsInput struct {
	Path  string `json:"path" jsonschema:"path to a local git repository"`
	Top   int    `json:"top,omitempty" jsonschema:"maximum number of files to return; 0 returns ten"`
	Since string `json:"since,omitempty" jsonschema:"only count commits after this date (any git-log --since syntax)"`
}

// HotspotsOutput carries the ranked files.
type HotspotsOutput struct {
	Repo     string             `json:"repo"`
	Hotspots []analysis.Hotspot `json:"hotspots"`
}

func (s *Server) hotspots(ctx context.Context, req *sdk.CallToolRequest, input HotspotsInput) (*sdk.CallToolResult, *HotspotsOutput, error) {
	top := input.Top
	if top <= 0 {
		top = 10
	}

	repo, err := gitrepo.Open(ctx, input.Path, s.logger)
	if err != nil {
		return nil, nil, err
	}

	ignore, err := s.loadIgnore(repo)
	if err != nil {
		return nil, nil, err
	}

	tracked, err := repo.ListFiles(ctx, s.cfg.Analysis.Extensions, ignore)
	if err != nil {
		return nil, nil, err
	}
	commits, err := repo.Log(ctx, gitrepo.LogOptions{Since: input.Since})
	if err != nil {
		return nil, nil, err
	}

	loc := analysis.CountLines(repo.Path(), tracked)
	hotspots := analysis.Hotspots(commits, loc, tracked, ignore)
	if len(hotspots) > top {
		hotspots = hotspots[:top]
	}

	return nil, &HotspotsOutput{Repo: repo.Path(), Hotspots: hotspots}, nil
}

// newProvider wires the blame provider with the configured cache. Cache
// failures degrade to uncached blame rather than failing the tool call.
func (s *Server) newProvider(ctx context.Context, repo *gitrepo.Repository) (*gitrepo.HistoryProvider, func(), error) {
	ignore, err := s.loadIgnore(repo)
	if err != nil {
		return nil, nil, err
	}

	providerCfg := gitrepo.ProviderConfig{
		Extensions:  s.cfg.Analysis.Extensions,
		Ignore:      ignore,
		FileTimeout: s.cfg.Analysis.BlameTimeout,
	}

	cleanup := func() {}
	if !s.cfg.Cache.Disabled {
		store, err := cache.Open(filepath.Join(s.cfg.Cache.Directory, "blame.db"), s.logger)
		if err != nil {
			s.logger.WithError(err).Warn("blame cache unavailable, continuing without it")
		} else {
			providerCfg.Store = store
			cleanup = func() { store.Close() }
		}
	}

	provider, err := gitrepo.NewHistoryProvider(ctx, repo, providerCfg, s.logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return provider, cleanup, nil
}

// loadIgnore resolves the configured ignore file against the repository root.
func (s *Server) loadIgnore(repo *gitrepo.Repository) (*gitrepo.IgnoreMatcher, error) {
	name := s.cfg.Analysis.IgnoreFile
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(repo.Path(), name)
	}
	ignore, err := gitrepo.LoadIgnoreFile(name)
	if err != nil {
		return nil, fmt.Errorf("load ignore file: %w", err)
	}
	return ignore, nil
}
