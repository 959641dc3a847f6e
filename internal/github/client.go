// Package github enriches reports with repository metadata from the GitHub
// API. Everything here is optional: callers treat failures as a missing
// enrichment, never as a fatal error.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Enrichment is the repository metadata shown in report headers.
type Enrichment struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Stars         int    `json:"stars"`
	OpenIssues    int    `json:"open_issues"`
	Contributors  int    `json:"contributors"`
}

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a client. An empty token yields an unauthenticated
// client, which works for public repositories at GitHub's anonymous quota.
func NewClient(token string, rateLimit int, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if rateLimit <= 0 {
		rateLimit = 10
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:  logger,
	}
}

// Enrich fetches repository metadata and the contributor count concurrently.
func (c *Client) Enrich(ctx context.Context, owner, name string) (*Enrichment, error) {
	enrichment := &Enrichment{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := c.limiter.Wait(gctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		repo, _, err := c.client.Repositories.Get(gctx, owner, name)
		if err != nil {
			return fmt.Errorf("fetch repository: %w", err)
		}
		enrichment.FullName = repo.GetFullName()
		enrichment.Description = repo.GetDescription()
		enrichment.DefaultBranch = repo.GetDefaultBranch()
		enrichment.Private = repo.GetPrivate()
		enrichment.Stars = repo.GetStargazersCount()
		enrichment.OpenIssues = repo.GetOpenIssuesCount()
		return nil
	})

	g.Go(func() error {
		count, err := c.countContributors(gctx, owner, name)
		if err != nil {
			return err
		}
		enrichment.Contributors = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"repo":         enrichment.FullName,
		"contributors": enrichment.Contributors,
	}).Debug("fetched github enrichment")

	return enrichment, nil
}

// countContributors reads the pagination trailer of a one-per-page listing
// instead of walking every page.
func (c *Client) countContributors(ctx context.Context, owner, name string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	contributors, resp, err := c.client.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0, fmt.Errorf("fetch contributors: %w", err)
	}

	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(contributors), nil
}
