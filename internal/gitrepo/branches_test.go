package gitrepo

import (
	"context"
	"os/exec"
	"testing"
)

func TestRemoteBranches(t *testing.T) {
	origin := initTestRepo(t)
	commitFile(t, origin, "a.go", "package a\n", "alice@example.com")
	gitIn(t, origin, "branch", "feature-x")

	clone := t.TempDir()
	if err := exec.Command("git", "clone", origin, clone).Run(); err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	repo, err := Open(context.Background(), clone, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	branches, err := repo.RemoteBranches(context.Background())
	if err != nil {
		t.Fatalf("RemoteBranches() error = %v", err)
	}

	names := map[string]bool{}
	for _, b := range branches {
		names[b.Name] = true
		if b.SHA == "" {
			t.Errorf("branch %s has empty SHA", b.Name)
		}
		if b.LastCommitDate.IsZero() {
			t.Errorf("branch %s has zero commit date", b.Name)
		}
	}
	if !names["origin/feature-x"] {
		t.Errorf("missing origin/feature-x in %v", branches)
	}
	for name := range names {
		if name == "origin/HEAD" {
			t.Error("symbolic HEAD pointer must be excluded")
		}
	}
}

func TestMainBranch(t *testing.T) {
	tests := []struct {
		name     string
		branches []RemoteBranch
		want     string
	}{
		{
			name:     "prefers main",
			branches: []RemoteBranch{{Name: "origin/master"}, {Name: "origin/main"}},
			want:     "origin/main",
		},
		{
			name:     "falls back to master",
			branches: []RemoteBranch{{Name: "origin/dev"}, {Name: "origin/master"}},
			want:     "origin/master",
		},
		{
			name:     "neither present",
			branches: []RemoteBranch{{Name: "origin/trunk"}},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MainBranch(tt.branches); got != tt.want {
				t.Errorf("MainBranch() = %q, want %q", got, tt.want)
			}
		})
	}
}
