package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatcherMatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"anywhere pattern matches basename", []string{"**/generated.go"}, "internal/api/generated.go", true},
		{"anywhere pattern matches directory part", []string{"**/node_modules"}, "web/node_modules/lib.js", true},
		{"anywhere pattern no match", []string{"**/generated.go"}, "internal/api/handler.go", false},
		{"subtree pattern matches child", []string{"vendor/**"}, "vendor/github.com/pkg/errors/errors.go", true},
		{"subtree pattern matches root entry", []string{"vendor/**"}, "vendor", true},
		{"subtree pattern needs full segment", []string{"vendor/**"}, "vendored/file.go", false},
		{"plain glob on full path", []string{"docs/*.md"}, "docs/intro.md", true},
		{"plain glob on basename", []string{"*.min.js"}, "dist/app.min.js", true},
		{"plain glob no match", []string{"*.min.js"}, "src/app.js", false},
		{"comment and blank lines skipped", []string{"", "# comment", "*.tmp"}, "cache.tmp", true},
		{"no patterns", nil, "anything.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewIgnoreMatcher(tt.patterns)
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v (patterns %v)", tt.path, got, tt.want, tt.patterns)
			}
		})
	}
}

func TestLoadIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ignore-files.txt")
	content := "# generated artifacts\n**/mocks\n\nvendor/**\n*.pb.go\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadIgnoreFile(path)
	if err != nil {
		t.Fatalf("LoadIgnoreFile() error = %v", err)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if !m.Match("api/service.pb.go") {
		t.Error("expected generated protobuf file to match")
	}
	if m.Match("api/service.go") {
		t.Error("did not expect plain source file to match")
	}
}

func TestLoadIgnoreFileMissing(t *testing.T) {
	m, err := LoadIgnoreFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("LoadIgnoreFile() error = %v for missing file", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if m.Match("anything.go") {
		t.Error("empty matcher must not match")
	}
}
