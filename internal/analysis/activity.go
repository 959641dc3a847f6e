package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/identity"
)

// DefaultActivityWindowDays is the window for the time-boxed activity
// figures.
const DefaultActivityWindowDays = 30

// ActivitySummary is a whole-repository pulse check: lifetime totals plus a
// recent window of commits, contributors, and churn.
type ActivitySummary struct {
	TotalCommits       int       `json:"total_commits"`
	FirstCommitDate    time.Time `json:"first_commit_date"`
	LastCommitDate     time.Time `json:"last_commit_date"`
	TotalContributors  int       `json:"total_contributors"`
	RemoteBranches     int       `json:"remote_branches"`
	Tags               int       `json:"tags"`
	WindowDays         int       `json:"window_days"`
	CommitsInWindow    int       `json:"commits_in_window"`
	ActiveContributors int       `json:"active_contributors"`
	LinesAdded         int       `json:"lines_added"`
	LinesDeleted       int       `json:"lines_deleted"`
	NetChange          int       `json:"net_change"`
}

// ComputeActivity gathers the summary over the repository's full history
// and the trailing window of days (DefaultActivityWindowDays when zero or
// negative).
func ComputeActivity(ctx context.Context, repo *gitrepo.Repository, days int) (*ActivitySummary, error) {
	if days <= 0 {
		days = DefaultActivityWindowDays
	}
	summary := &ActivitySummary{WindowDays: days}

	total, err := repo.TotalCommits(ctx)
	if err != nil {
		return nil, err
	}
	summary.TotalCommits = total

	dates, err := repo.CommitDates(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(dates) > 0 {
		summary.LastCommitDate = dates[0]
		summary.FirstCommitDate = dates[len(dates)-1]
	}

	emails, err := repo.AllAuthorEmails(ctx)
	if err != nil {
		return nil, err
	}
	contributors := map[string]bool{}
	for _, e := range emails {
		if a := identity.Normalize(e); a != identity.Unknown {
			contributors[a] = true
		}
	}
	summary.TotalContributors = len(contributors)

	branches, err := repo.RemoteBranches(ctx)
	if err != nil {
		return nil, err
	}
	summary.RemoteBranches = len(branches)

	tags, err := repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	summary.Tags = len(tags)

	since := fmt.Sprintf("%d days ago", days)
	commits, err := repo.Log(ctx, gitrepo.LogOptions{Since: since})
	if err != nil {
		return nil, err
	}
	summary.CommitsInWindow = len(commits)
	active := map[string]bool{}
	for _, c := range commits {
		if a := identity.Normalize(c.AuthorEmail); a != identity.Unknown {
			active[a] = true
		}
	}
	summary.ActiveContributors = len(active)

	churns, err := repo.Churn(ctx, "", since)
	if err != nil {
		return nil, err
	}
	for _, c := range churns {
		summary.LinesAdded += c.Added
		summary.LinesDeleted += c.Deleted
	}
	summary.NetChange = summary.LinesAdded - summary.LinesDeleted
	return summary, nil
}
