package gitrepo

import (
	"context"
	"testing"
	"time"
)

func TestParseLog(t *testing.T) {
	out := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa|bob@example.com|2024-03-02T10:00:00+01:00|9999999999999999999999999999999999999999|add handler\n" +
		"\n" +
		"internal/api/handler.go\n" +
		"internal/api/handler_test.go\n" +
		"\n" +
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb|alice@example.com|2024-03-01T09:00:00Z||initial commit\n" +
		"\n" +
		"main.go\n"

	commits, err := parseLog(out)
	if err != nil {
		t.Fatalf("parseLog() error = %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}

	first := commits[0]
	if first.AuthorEmail != "bob@example.com" {
		t.Errorf("AuthorEmail = %q, want bob@example.com", first.AuthorEmail)
	}
	if first.Subject != "add handler" {
		t.Errorf("Subject = %q", first.Subject)
	}
	if len(first.Files) != 2 || first.Files[0] != "internal/api/handler.go" {
		t.Errorf("Files = %v", first.Files)
	}
	if len(first.Parents) != 1 {
		t.Errorf("Parents = %v, want one parent", first.Parents)
	}
	if first.IsMerge() {
		t.Error("single-parent commit reported as merge")
	}

	second := commits[1]
	if len(second.Parents) != 0 {
		t.Errorf("root commit Parents = %v, want none", second.Parents)
	}
	if !second.Date.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", second.Date)
	}
}

func TestParseLogSubjectWithPipes(t *testing.T) {
	out := "cccccccccccccccccccccccccccccccccccccccc|carol@example.com|2024-05-05T12:00:00Z||refactor: split a|b|c\n" +
		"\n" +
		"pkg/split.go\n"

	commits, err := parseLog(out)
	if err != nil {
		t.Fatalf("parseLog() error = %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(commits))
	}
	if commits[0].Subject != "refactor: split a|b|c" {
		t.Errorf("Subject = %q", commits[0].Subject)
	}
}

func TestLog(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "main.go", "package main\n", "alice@example.com")
	commitFile(t, dir, "util.go", "package main\n", "bob@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	commits, err := repo.Log(context.Background(), LogOptions{})
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}

	// Newest first.
	if commits[0].AuthorEmail != "bob@example.com" {
		t.Errorf("commits[0].AuthorEmail = %q, want bob@example.com", commits[0].AuthorEmail)
	}
	if len(commits[0].Files) != 1 || commits[0].Files[0] != "util.go" {
		t.Errorf("commits[0].Files = %v, want [util.go]", commits[0].Files)
	}
	if len(commits[1].Files) != 1 || commits[1].Files[0] != "main.go" {
		t.Errorf("commits[1].Files = %v, want [main.go]", commits[1].Files)
	}
	if commits[0].Date.Before(commits[1].Date) {
		t.Error("expected newest commit first")
	}
}

func TestRevListCount(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.go", "package a\n", "alice@example.com")
	commitFile(t, dir, "b.go", "package a\n", "alice@example.com")
	commitFile(t, dir, "c.go", "package a\n", "alice@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	n, err := repo.RevListCount(context.Background(), "HEAD", "")
	if err != nil {
		t.Fatalf("RevListCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("RevListCount() = %d, want 3", n)
	}

	n, err = repo.RevListCount(context.Background(), "HEAD", "HEAD~1")
	if err != nil {
		t.Fatalf("RevListCount() with exclude error = %v", err)
	}
	if n != 1 {
		t.Errorf("RevListCount(HEAD, ^HEAD~1) = %d, want 1", n)
	}
}

func TestFirstCommitDate(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.go", "package a\n", "alice@example.com")
	commitFile(t, dir, "b.go", "package a\n", "alice@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	first, err := repo.FirstCommitDate(context.Background(), "")
	if err != nil {
		t.Fatalf("FirstCommitDate() error = %v", err)
	}

	dates, err := repo.CommitDates(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dates {
		if first.After(d) {
			t.Errorf("FirstCommitDate() = %v is after commit at %v", first, d)
		}
	}
}

func TestChurn(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.go", "one\ntwo\nthree\n", "alice@example.com")
	commitFile(t, dir, "a.go", "one\nthree\n", "alice@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	churns, err := repo.Churn(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Churn() error = %v", err)
	}
	if len(churns) != 2 {
		t.Fatalf("got %d churn entries, want 2", len(churns))
	}

	// Newest first: the second commit deleted one line.
	if churns[0].Deleted != 1 || churns[0].Added != 0 {
		t.Errorf("churns[0] = +%d -%d, want +0 -1", churns[0].Added, churns[0].Deleted)
	}
	if churns[1].Added != 3 {
		t.Errorf("churns[1].Added = %d, want 3", churns[1].Added)
	}
	if churns[1].Lines() != 3 {
		t.Errorf("churns[1].Lines() = %d, want 3", churns[1].Lines())
	}
}

func TestTags(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.go", "package a\n", "alice@example.com")
	gitIn(t, dir, "tag", "v1.0.0")
	commitFile(t, dir, "b.go", "package a\n", "alice@example.com")
	gitIn(t, dir, "tag", "v1.1.0")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	tags, err := repo.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].Name != "v1.0.0" || tags[1].Name != "v1.1.0" {
		t.Errorf("tags = %v, want v1.0.0 then v1.1.0", tags)
	}
	if tags[0].Date.IsZero() {
		t.Error("tag date not populated")
	}
}

func TestAuthorEmails(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.go", "package a\n", "alice@example.com")
	commitFile(t, dir, "b.go", "package a\n", "bob@example.com")
	commitFile(t, dir, "c.go", "package a\n", "alice@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	emails, err := repo.AuthorEmails(context.Background(), "")
	if err != nil {
		t.Fatalf("AuthorEmails() error = %v", err)
	}
	if len(emails) != 3 {
		t.Fatalf("got %d emails, want 3 (duplicates kept)", len(emails))
	}
	if emails[0] != "alice@example.com" {
		t.Errorf("emails[0] = %q, want newest author first", emails[0])
	}
}
