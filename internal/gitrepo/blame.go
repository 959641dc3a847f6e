package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// LineAddresses returns one raw author address per line of path as of
// HEAD, in file order, with whitespace-only changes ignored. Files blame
// cannot process (binary content, vanished paths, unborn history) yield no
// records and no error; partial attribution is normal over a large tree.
func (r *Repository) LineAddresses(ctx context.Context, path string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "blame", "-w", "--line-porcelain", "HEAD", "--", path)
	cmd.Dir = r.path

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			r.logger.WithFields(logrus.Fields{
				"file":   path,
				"stderr": strings.TrimSpace(string(exitErr.Stderr)),
			}).Debug("blame skipped file")
			return nil, nil
		}
		return nil, fmt.Errorf("git blame %s: %w", path, err)
	}

	// Line porcelain repeats the full header block for every source line,
	// so author-mail appears exactly once per attributed line.
	var addrs []string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "author-mail ") {
			continue
		}
		addr := strings.TrimPrefix(line, "author-mail ")
		addr = strings.TrimPrefix(addr, "<")
		addr = strings.TrimSuffix(addr, ">")
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
