package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

// BlameStore caches raw per-line author addresses keyed by a repository
// state key and file path. Implementations must be safe for concurrent use.
type BlameStore interface {
	Get(stateKey, path string) ([]string, bool)
	Put(stateKey, path string, addrs []string) error
}

// ProviderConfig tunes a HistoryProvider.
type ProviderConfig struct {
	// Extensions is the source-file allowlist; DefaultExtensions when empty.
	Extensions []string
	Ignore     *IgnoreMatcher
	// Store enables blame caching when non-nil.
	Store BlameStore
	// FileTimeout bounds a single blame invocation; 0 disables the bound.
	FileTimeout time.Duration
}

// HistoryProvider feeds the ownership engine from a live repository:
// extension-filtered file listings and blame-based line attribution, with
// results cached per HEAD commit so reruns on an unchanged tree skip git
// entirely.
type HistoryProvider struct {
	repo     *Repository
	cfg      ProviderConfig
	stateKey string
	logger   *logrus.Logger
}

// NewHistoryProvider builds a provider pinned to the repository's current
// HEAD. The cache key prefers the origin URL over the local path so clones
// of the same remote share entries.
func NewHistoryProvider(ctx context.Context, repo *Repository, cfg ProviderConfig, logger *logrus.Logger) (*HistoryProvider, error) {
	if logger == nil {
		logger = logrus.New()
	}

	head, err := repo.HeadSHA(ctx)
	if err != nil {
		return nil, err
	}
	id := repo.Path()
	if url, err := repo.RemoteURL(ctx); err == nil && url != "" {
		id = url
	}

	return &HistoryProvider{
		repo:     repo,
		cfg:      cfg,
		stateKey: fmt.Sprintf("%s@%s", id, head),
		logger:   logger,
	}, nil
}

// StateKey identifies the repository state all cached attributions belong to.
func (p *HistoryProvider) StateKey() string { return p.stateKey }

// ListRelevantFiles returns the tracked source files under analysis.
func (p *HistoryProvider) ListRelevantFiles(ctx context.Context) ([]string, error) {
	return p.repo.ListFiles(ctx, p.cfg.Extensions, p.cfg.Ignore)
}

// LineAttribution returns one record per attributable line of path,
// consulting the cache before shelling out to blame. Raw addresses are
// cached pre-normalization.
func (p *HistoryProvider) LineAttribution(ctx context.Context, path string) ([]ownership.LineAttribution, error) {
	if p.cfg.Store != nil {
		if addrs, ok := p.cfg.Store.Get(p.stateKey, path); ok {
			return toAttributions(addrs), nil
		}
	}

	blameCtx := ctx
	if p.cfg.FileTimeout > 0 {
		var cancel context.CancelFunc
		blameCtx, cancel = context.WithTimeout(ctx, p.cfg.FileTimeout)
		defer cancel()
	}

	addrs, err := p.repo.LineAddresses(blameCtx, path)
	if err != nil {
		// A single oversized file blowing its budget should not sink the
		// whole run while the caller is still live.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			p.logger.WithField("file", path).Warn("blame timed out, file excluded from attribution")
			return nil, nil
		}
		return nil, err
	}

	if p.cfg.Store != nil {
		if err := p.cfg.Store.Put(p.stateKey, path, addrs); err != nil {
			p.logger.WithError(err).WithField("file", path).Warn("blame cache write failed")
		}
	}
	return toAttributions(addrs), nil
}

func toAttributions(addrs []string) []ownership.LineAttribution {
	records := make([]ownership.LineAttribution, len(addrs))
	for i, addr := range addrs {
		records[i] = ownership.LineAttribution{AuthorAddress: addr}
	}
	return records
}
