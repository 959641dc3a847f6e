// Package gitrepo drives a local git checkout through the git CLI and
// exposes the history inputs the analyses consume: tracked-file listings,
// per-line blame attribution, commit logs, tags, and branch activity.
package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Repository is a handle on a local working tree.
type Repository struct {
	path   string
	logger *logrus.Logger
}

// Open returns a handle on an existing working tree after verifying it
// really is one.
func Open(ctx context.Context, path string, logger *logrus.Logger) (*Repository, error) {
	if logger == nil {
		logger = logrus.New()
	}
	r := &Repository{path: path, logger: logger}

	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return nil, fmt.Errorf("not a git repository: %s", path)
	}
	return r, nil
}

// CloneOptions control how a remote repository is fetched for analysis.
type CloneOptions struct {
	URL    string
	Branch string
	// Depth limits history when positive; 0 clones everything.
	Depth int
}

// Clone fetches a remote repository into dir and returns a handle on it.
// Shallow clones are unshallowed afterwards, best effort, so blame and log
// see as much history as the remote will give us.
func Clone(ctx context.Context, opts CloneOptions, dir string, logger *logrus.Logger) (*Repository, error) {
	if logger == nil {
		logger = logrus.New()
	}

	args := []string{"clone"}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	args = append(args, opts.URL, dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git clone %s: %w (output: %s)", opts.URL, err, strings.TrimSpace(string(out)))
	}

	repo := &Repository{path: dir, logger: logger}
	if opts.Depth > 0 {
		if _, err := repo.git(ctx, "fetch", "--unshallow"); err != nil {
			logger.WithError(err).Warn("could not unshallow clone, blame will see truncated history")
		}
		if _, err := repo.git(ctx, "fetch", "--all", "--tags", "--force"); err != nil {
			logger.WithError(err).Debug("tag fetch failed")
		}
	}

	logger.WithField("dir", dir).Debug("clone complete")
	return repo, nil
}

// Path returns the working tree location.
func (r *Repository) Path() string { return r.path }

// CurrentBranch returns the checked-out branch name.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadSHA returns the current commit hash.
func (r *Repository) HeadSHA(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns origin's URL, or an error when no remote is configured.
func (r *Repository) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// git runs one git subcommand in the working tree and returns stdout,
// surfacing stderr inside the error on failure.
func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %w (stderr: %s)", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

var (
	httpsURLPattern = regexp.MustCompile(`^https?://([^/]+)/([^/]+)/([^/]+?)(\.git)?$`)
	sshURLPattern   = regexp.MustCompile(`^git@([^:]+):([^/]+)/([^/]+?)(\.git)?$`)
	gitURLPattern   = regexp.MustCompile(`^git://([^/]+)/([^/]+)/([^/]+?)(\.git)?$`)
)

// ParseRemoteURL extracts host, owner, and repository name from HTTPS, SSH,
// and git protocol remote URLs.
func ParseRemoteURL(url string) (host, owner, name string, err error) {
	url = strings.TrimSpace(url)
	for _, pattern := range []*regexp.Regexp{httpsURLPattern, sshURLPattern, gitURLPattern} {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], m[2], m[3], nil
		}
	}
	return "", "", "", fmt.Errorf("unrecognized remote url format: %s", url)
}
