package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/identity"
)

// DefaultActiveWindowDays is how recently a branch must have moved to count
// as active.
const DefaultActiveWindowDays = 90

// BranchStats describes one remote branch's shape and activity.
type BranchStats struct {
	Name               string    `json:"branch_name"`
	CreationDate       time.Time `json:"creation_date"`
	LastCommitDate     time.Time `json:"last_commit_date"`
	LifetimeDays       float64   `json:"lifetime_days"`
	InactiveDays       float64   `json:"inactive_days"`
	Active             bool      `json:"is_active"`
	CommitCount        int       `json:"commit_count"`
	CommitterCount     int       `json:"committer_count"`
	LargestCommitLines int       `json:"largest_commit_lines"`
	LargestCommitSHA   string    `json:"largest_commit_hash"`
}

// BranchOptions tune the branch walk.
type BranchOptions struct {
	// ActiveWindowDays defaults to DefaultActiveWindowDays when zero.
	ActiveWindowDays int
	// Now anchors age calculations; zero means time.Now().
	Now time.Time
}

// AnalyzeBranches computes per-branch statistics across all remote
// branches, busiest first. Commit counts are unique to the branch relative
// to the integration branch, falling back to the full count for the
// integration branch itself. Branches whose history cannot be read are
// skipped.
func AnalyzeBranches(ctx context.Context, repo *gitrepo.Repository, opts BranchOptions, logger *logrus.Logger) ([]BranchStats, error) {
	if logger == nil {
		logger = logrus.New()
	}
	window := opts.ActiveWindowDays
	if window <= 0 {
		window = DefaultActiveWindowDays
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	branches, err := repo.RemoteBranches(ctx)
	if err != nil {
		return nil, err
	}
	main := gitrepo.MainBranch(branches)

	var stats []BranchStats
	for _, branch := range branches {
		creation, err := repo.FirstCommitDate(ctx, branch.Name)
		if err != nil {
			logger.WithError(err).WithField("branch", branch.Name).Debug("skipping branch, no readable history")
			continue
		}

		count := 0
		if main != "" && branch.Name != main {
			if n, err := repo.RevListCount(ctx, branch.Name, main); err == nil {
				count = n
			}
		}
		if count == 0 {
			if n, err := repo.RevListCount(ctx, branch.Name, ""); err == nil {
				count = n
			}
		}

		committers := map[string]bool{}
		if emails, err := repo.AuthorEmails(ctx, branch.Name); err == nil {
			for _, e := range emails {
				if a := identity.Normalize(e); a != identity.Unknown {
					committers[a] = true
				}
			}
		}

		largestLines, largestSHA := 0, ""
		if churns, err := repo.Churn(ctx, branch.Name, ""); err == nil {
			for _, c := range churns {
				if c.Lines() > largestLines {
					largestLines = c.Lines()
					largestSHA = c.SHA
				}
			}
		}

		inactive := now.Sub(branch.LastCommitDate).Hours() / 24
		stats = append(stats, BranchStats{
			Name:               branch.Name,
			CreationDate:       creation,
			LastCommitDate:     branch.LastCommitDate,
			LifetimeDays:       now.Sub(creation).Hours() / 24,
			InactiveDays:       inactive,
			Active:             inactive < float64(window),
			CommitCount:        count,
			CommitterCount:     len(committers),
			LargestCommitLines: largestLines,
			LargestCommitSHA:   largestSHA,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CommitCount != stats[j].CommitCount {
			return stats[i].CommitCount > stats[j].CommitCount
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}

// BranchSummary aggregates a branch walk.
type BranchSummary struct {
	TotalBranches      int     `json:"total_branches"`
	ActiveBranches     int     `json:"active_branches"`
	InactiveBranches   int     `json:"inactive_branches"`
	TotalCommits       int     `json:"total_commits"`
	AvgCommits         float64 `json:"avg_commits"`
	MaxCommitters      int     `json:"max_committers"`
	AvgCommitters      float64 `json:"avg_committers"`
	LargestCommitLines int     `json:"largest_commit_lines"`
}

// SummarizeBranches rolls per-branch stats into repository-level figures.
func SummarizeBranches(stats []BranchStats) BranchSummary {
	summary := BranchSummary{TotalBranches: len(stats)}
	if len(stats) == 0 {
		return summary
	}

	totalCommitters := 0
	for _, s := range stats {
		if s.Active {
			summary.ActiveBranches++
		}
		summary.TotalCommits += s.CommitCount
		totalCommitters += s.CommitterCount
		if s.CommitterCount > summary.MaxCommitters {
			summary.MaxCommitters = s.CommitterCount
		}
		if s.LargestCommitLines > summary.LargestCommitLines {
			summary.LargestCommitLines = s.LargestCommitLines
		}
	}
	summary.InactiveBranches = summary.TotalBranches - summary.ActiveBranches
	summary.AvgCommits = float64(summary.TotalCommits) / float64(len(stats))
	summary.AvgCommitters = float64(totalCommitters) / float64(len(stats))
	return summary
}
