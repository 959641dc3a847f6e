package gitrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Commit is one history entry together with the files it touched.
type Commit struct {
	SHA         string
	AuthorEmail string
	Date        time.Time
	Parents     []string
	Subject     string
	Files       []string
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// LogOptions scope a history walk. Zero values impose no limit.
type LogOptions struct {
	// Rev is the branch or revision to walk; empty means HEAD.
	Rev string
	// Since and Until pass straight through to git (any syntax git log
	// accepts, "2024-01-01" or "1 year ago").
	Since string
	Until string
	// MergesOnly restricts the walk to merge commits.
	MergesOnly bool
}

// Log returns commits newest first, each with its changed-file list. Merge
// commits carry no file entries.
func (r *Repository) Log(ctx context.Context, opts LogOptions) ([]Commit, error) {
	args := []string{"log", "--pretty=format:%H|%ae|%aI|%P|%s", "--name-only"}
	if opts.MergesOnly {
		args = append(args, "--merges")
	}
	if opts.Since != "" {
		args = append(args, "--since="+opts.Since)
	}
	if opts.Until != "" {
		args = append(args, "--until="+opts.Until)
	}
	if opts.Rev != "" {
		args = append(args, opts.Rev)
	}

	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseLog(out)
}

func parseLog(out string) ([]Commit, error) {
	var commits []Commit
	var current *Commit

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if parts := strings.SplitN(line, "|", 5); len(parts) == 5 && isCommitSHA(parts[0]) {
			if current != nil {
				commits = append(commits, *current)
			}
			date, err := time.Parse(time.RFC3339, parts[2])
			if err != nil {
				return nil, fmt.Errorf("parsing commit date %q: %w", parts[2], err)
			}
			current = &Commit{
				SHA:         parts[0],
				AuthorEmail: parts[1],
				Date:        date,
				Parents:     strings.Fields(parts[3]),
				Subject:     parts[4],
			}
			continue
		}

		if current != nil {
			current.Files = append(current.Files, line)
		}
	}
	if current != nil {
		commits = append(commits, *current)
	}
	return commits, nil
}

func isCommitSHA(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// CommitDates returns author dates, newest first, for every commit in
// revRange ("origin/main", "abc123..def456", empty for HEAD).
func (r *Repository) CommitDates(ctx context.Context, revRange string) ([]time.Time, error) {
	args := []string{"log", "--pretty=%aI"}
	if revRange != "" {
		args = append(args, revRange)
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d, err := time.Parse(time.RFC3339, line)
		if err != nil {
			return nil, fmt.Errorf("parsing commit date %q: %w", line, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// FirstCommitDate returns the author date of the oldest commit reachable
// from rev (HEAD when empty).
func (r *Repository) FirstCommitDate(ctx context.Context, rev string) (time.Time, error) {
	dates, err := r.CommitDates(ctx, rev)
	if err != nil {
		return time.Time{}, err
	}
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("no commits reachable from %q", rev)
	}
	return dates[len(dates)-1], nil
}

// RevListCount counts commits reachable from rev, minus those reachable
// from exclude when non-empty.
func (r *Repository) RevListCount(ctx context.Context, rev, exclude string) (int, error) {
	args := []string{"rev-list", "--count", rev}
	if exclude != "" {
		args = append(args, "^"+exclude)
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// TotalCommits counts commits across all refs.
func (r *Repository) TotalCommits(ctx context.Context) (int, error) {
	out, err := r.git(ctx, "rev-list", "--all", "--count")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// AuthorEmails returns one raw author address per commit reachable from rev
// (HEAD when empty), newest first, duplicates included.
func (r *Repository) AuthorEmails(ctx context.Context, rev string) ([]string, error) {
	args := []string{"log", "--pretty=%ae"}
	if rev != "" {
		args = append(args, rev)
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var emails []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			emails = append(emails, line)
		}
	}
	return emails, nil
}

// AllAuthorEmails returns raw author addresses across all refs.
func (r *Repository) AllAuthorEmails(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "log", "--all", "--pretty=%ae")
	if err != nil {
		return nil, err
	}

	var emails []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			emails = append(emails, line)
		}
	}
	return emails, nil
}

// CommitChurn is the total line movement of one commit, binary entries
// excluded.
type CommitChurn struct {
	SHA     string
	Added   int
	Deleted int
}

// Lines returns added plus deleted.
func (c CommitChurn) Lines() int { return c.Added + c.Deleted }

// Churn returns per-commit added and deleted line totals for rev (HEAD
// when empty), optionally windowed by since.
func (r *Repository) Churn(ctx context.Context, rev, since string) ([]CommitChurn, error) {
	args := []string{"log", "--pretty=format:%H", "--numstat"}
	if since != "" {
		args = append(args, "--since="+since)
	}
	if rev != "" {
		args = append(args, rev)
	}

	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var churns []CommitChurn
	var current *CommitChurn
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isCommitSHA(line) {
			if current != nil {
				churns = append(churns, *current)
			}
			current = &CommitChurn{SHA: line}
			continue
		}
		if current == nil {
			continue
		}

		// numstat lines are "<added>\t<deleted>\t<path>", with "-" for
		// binary files.
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		if added, err := strconv.Atoi(fields[0]); err == nil {
			current.Added += added
		}
		if deleted, err := strconv.Atoi(fields[1]); err == nil {
			current.Deleted += deleted
		}
	}
	if current != nil {
		churns = append(churns, *current)
	}
	return churns, nil
}

// Tag is a release or deployment marker with its creation time.
type Tag struct {
	Name string
	Date time.Time
}

// Tags returns every tag with its creation date, oldest first.
func (r *Repository) Tags(ctx context.Context) ([]Tag, error) {
	out, err := r.git(ctx, "for-each-ref", "refs/tags", "--sort=creatordate", "--format=%(refname:short)|%(creatordate:iso-strict)")
	if err != nil {
		return nil, err
	}

	var tags []Tag
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		date, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("parsing tag date %q: %w", parts[1], err)
		}
		tags = append(tags, Tag{Name: parts[0], Date: date})
	}
	return tags, nil
}
