package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/cache"
	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/llm"
	"github.com/thoughtful-solutions/metrics/internal/storage"
)

// openTarget resolves a command's positional target: a local path (default
// ".") or a remote URL, which is cloned to a temp directory that the
// returned cleanup removes.
func openTarget(ctx context.Context, args []string) (*gitrepo.Repository, func(), error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	if !isRemote(target) {
		repo, err := gitrepo.Open(ctx, target, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "gitmetrics-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create clone directory: %w", err)
	}
	logger.WithField("url", target).Debug("Cloning remote target")
	repo, err := gitrepo.Clone(ctx, gitrepo.CloneOptions{
		URL:    target,
		Branch: cloneBranch,
		Depth:  cloneDepth,
	}, dir, logger)
	if err != nil {
		os.RemoveAll(dir)
		return nil, nil, err
	}
	return repo, func() { os.RemoveAll(dir) }, nil
}

func isRemote(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "git@")
}

// loadIgnore resolves the configured ignore file against the repository root.
func loadIgnore(repo *gitrepo.Repository) (*gitrepo.IgnoreMatcher, error) {
	name := cfg.Analysis.IgnoreFile
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

// newHistoryProvider wires the blame provider with the configured cache.
// Cache failures degrade to uncached blame rather than failing the run.
func newHistoryProvider(ctx context.Context, repo *gitrepo.Repository) (*gitrepo.HistoryProvider, func(), error) {
	ignore, err := loadIgnore(repo)
	if err != nil {
		return nil, nil, err
	}

	providerCfg := gitrepo.ProviderConfig{
		Extensions:  cfg.Analysis.Extensions,
		Ignore:      ignore,
		FileTimeout: cfg.Analysis.BlameTimeout,
	}

	cleanup := func() {}
	if !cfg.Cache.Disabled {
		store, err := cache.Open(filepath.Join(cfg.Cache.Directory, "blame.db"), logger)
		if err != nil {
			logger.WithError(err).Warn("Blame cache unavailable, continuing without it")
		} else {
			providerCfg.Store = store
			cleanup = func() {
				if err := store.Close(); err != nil {
					logger.WithError(err).Debug("Closing blame cache failed")
				}
			}
		}
	}

	provider, err := gitrepo.NewHistoryProvider(ctx, repo, providerCfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return provider, cleanup, nil
}

// validateConfig enforces the config preconditions of one command surface,
// surfacing warnings through the logger.
func validateConfig(vctx config.ValidationContext) error {
	result := cfg.Validate(vctx)
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if result.HasErrors() {
		return fmt.Errorf("%s", result.Error())
	}
	return nil
}

// openStore opens the configured run store.
func openStore() (storage.Store, error) {
	if err := validateConfig(config.ValidationContextHistory); err != nil {
		return nil, err
	}
	switch cfg.Storage.Type {
	case "", "sqlite":
		return storage.NewSQLiteStore(cfg.Storage.LocalPath, logger)
	default:
		return storage.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	}
}

// resolveLLMKey fills a missing provider key from the credential chain
// (environment, OS keychain, credentials file, interactive prompt).
func resolveLLMKey(llmCfg *config.LLMConfig) {
	cm := config.NewCredentialManager()
	switch llm.Provider(llmCfg.Provider) {
	case llm.ProviderOpenAI:
		if llmCfg.OpenAIKey == "" {
			if key, err := cm.GetOpenAIKey(); err == nil {
				llmCfg.OpenAIKey = key
			}
		}
	case llm.ProviderGemini:
		if llmCfg.GeminiKey == "" {
			if key, err := cm.GetGeminiKey(); err == nil {
				llmCfg.GeminiKey = key
			}
		}
	}
}
