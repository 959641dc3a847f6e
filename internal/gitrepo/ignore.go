package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreMatcher filters repository paths with gitignore-style glob
// patterns. Three pattern shapes are understood: "**/name" matches name in
// any directory, "prefix/**" matches an entire subtree, and everything else
// is a plain glob tried against both the full path and the base name.
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher builds a matcher from in-memory patterns. Blank entries
// and comments are dropped.
func NewIgnoreMatcher(patterns []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// LoadIgnoreFile reads one pattern per line. A missing file yields an empty
// matcher so callers can point at an optional file unconditionally.
func LoadIgnoreFile(path string) (*IgnoreMatcher, error) {
	if path == "" {
		return &IgnoreMatcher{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &IgnoreMatcher{}, nil
	}
	if err != nil {
		return nil, err
	}
	return NewIgnoreMatcher(strings.Split(string(data), "\n")), nil
}

// Len returns the number of active patterns.
func (m *IgnoreMatcher) Len() int { return len(m.patterns) }

// Match reports whether path is excluded.
func (m *IgnoreMatcher) Match(path string) bool {
	for _, pattern := range m.patterns {
		switch {
		case strings.HasPrefix(pattern, "**/"):
			tail := pattern[len("**/"):]
			if ok, _ := filepath.Match(tail, path); ok {
				return true
			}
			for _, part := range strings.Split(path, "/") {
				if ok, _ := filepath.Match(tail, part); ok {
					return true
				}
			}
		case strings.Contains(pattern, "/**"):
			prefix := pattern[:strings.Index(pattern, "/**")]
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		default:
			if ok, _ := filepath.Match(pattern, path); ok {
				return true
			}
			if !strings.Contains(pattern, "/") {
				if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
					return true
				}
			}
		}
	}
	return false
}
