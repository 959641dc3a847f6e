package gitrepo

import (
	"context"
	"reflect"
	"sort"
	"testing"
)

func TestListFilesDefaultExtensions(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "a@example.com")
	commitFile(t, dir, "script.py", "print('hi')\n", "a@example.com")
	commitFile(t, dir, "README.md", "# readme\n", "a@example.com")
	commitFile(t, dir, "logo.svg", "<svg/>\n", "a@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	files, err := repo.ListFiles(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}

	sort.Strings(files)
	want := []string{"main.go", "script.py"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListFiles() = %v, want %v", files, want)
	}
}

func TestListFilesCustomExtensions(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "a@example.com")
	commitFile(t, dir, "notes.md", "# notes\n", "a@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	// Extensions may be given with or without the leading dot.
	files, err := repo.ListFiles(context.Background(), []string{"md"}, nil)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 || files[0] != "notes.md" {
		t.Errorf("ListFiles() = %v, want [notes.md]", files)
	}
}

func TestListFilesAppliesIgnorePatterns(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "a@example.com")
	commitFile(t, dir, "vendor/dep.go", "package dep\n", "a@example.com")
	commitFile(t, dir, "main_test.go", "package main\n", "a@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	ignore := NewIgnoreMatcher([]string{"vendor/**", "**/*_test.go"})
	files, err := repo.ListFiles(context.Background(), nil, ignore)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 || files[0] != "main.go" {
		t.Errorf("ListFiles() = %v, want [main.go]", files)
	}
}
