package gitrepo

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RemoteBranch is one remote-tracking branch and its latest activity.
type RemoteBranch struct {
	// Name keeps the remote prefix, "origin/feature-x".
	Name           string
	SHA            string
	LastCommitDate time.Time
}

// RemoteBranches lists remote-tracking branches, symbolic HEAD pointers
// excluded.
func (r *Repository) RemoteBranches(ctx context.Context) ([]RemoteBranch, error) {
	out, err := r.git(ctx, "for-each-ref", "refs/remotes", "--format=%(refname:short)|%(objectname)|%(committerdate:iso-strict)")
	if err != nil {
		return nil, err
	}

	var branches []RemoteBranch
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		if strings.HasSuffix(parts[0], "/HEAD") {
			continue
		}
		date, err := time.Parse(time.RFC3339, parts[2])
		if err != nil {
			return nil, fmt.Errorf("parsing branch date %q: %w", parts[2], err)
		}
		branches = append(branches, RemoteBranch{Name: parts[0], SHA: parts[1], LastCommitDate: date})
	}
	return branches, nil
}

// MainBranch returns the conventional integration branch among branches,
// preferring origin/main over origin/master, or "" when neither exists.
func MainBranch(branches []RemoteBranch) string {
	names := make(map[string]bool, len(branches))
	for _, b := range branches {
		names[b.Name] = true
	}
	for _, candidate := range []string{"origin/main", "origin/master"} {
		if names[candidate] {
			return candidate
		}
	}
	return ""
}
