package gitrepo

import (
	"context"
	"path/filepath"
	"strings"
)

// DefaultExtensions is the source-file allowlist applied when the caller
// does not supply one.
var DefaultExtensions = []string{
	".py", ".js", ".java", ".c", ".cpp", ".h", ".rb", ".go", ".rs",
	".swift", ".kt", ".kts", ".scala", ".php", ".ts",
}

// ListFiles returns the tracked files whose extension is in extensions
// (DefaultExtensions when empty), minus anything the ignore matcher
// rejects. Paths come back in git's listing order, relative to the
// repository root.
func (r *Repository) ListFiles(ctx context.Context, extensions []string, ignore *IgnoreMatcher) ([]string, error) {
	out, err := r.git(ctx, "ls-files")
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; !ok {
			continue
		}
		if ignore != nil && ignore.Match(path) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
