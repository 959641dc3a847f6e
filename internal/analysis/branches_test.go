package analysis

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBranches(t *testing.T) {
	origin := initTestRepo(t)
	commitFile(t, origin, "main.go", "package main\n", "alice@example.com")
	commitFile(t, origin, "util.go", "a\nb\n", "alice@example.com")
	gitIn(t, origin, "checkout", "-b", "feature-x")
	commitFile(t, origin, "feature.go", "a\nb\nc\nd\n", "bob@example.com")
	gitIn(t, origin, "checkout", "-")

	clone := t.TempDir()
	if err := exec.Command("git", "clone", origin, clone).Run(); err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	repo := openTestRepo(t, clone)

	stats, err := AnalyzeBranches(context.Background(), repo, BranchOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Busiest branch first.
	assert.GreaterOrEqual(t, stats[0].CommitCount, stats[1].CommitCount)

	byName := map[string]BranchStats{}
	for _, s := range stats {
		byName[s.Name] = s
	}

	feature, ok := byName["origin/feature-x"]
	require.True(t, ok, "expected origin/feature-x in %v", stats)
	assert.Equal(t, 1, feature.CommitCount, "commits unique to the branch")
	assert.Equal(t, 2, feature.CommitterCount, "full reachable history contributes committers")
	assert.Equal(t, 4, feature.LargestCommitLines)
	assert.NotEmpty(t, feature.LargestCommitSHA)
	assert.True(t, feature.Active)
	assert.False(t, feature.CreationDate.IsZero())
	assert.False(t, feature.LastCommitDate.IsZero())
	assert.GreaterOrEqual(t, feature.LifetimeDays, feature.InactiveDays)

	delete(byName, "origin/feature-x")
	require.Len(t, byName, 1)
	for _, integration := range byName {
		assert.Equal(t, 2, integration.CommitCount, "integration branch keeps its full count")
		assert.Equal(t, 1, integration.CommitterCount)
		assert.Equal(t, 2, integration.LargestCommitLines)
		assert.True(t, integration.Active)
	}
}

func TestSummarizeBranches(t *testing.T) {
	stats := []BranchStats{
		{Name: "origin/main", Active: true, CommitCount: 10, CommitterCount: 3, LargestCommitLines: 500},
		{Name: "origin/dev", Active: true, CommitCount: 6, CommitterCount: 2, LargestCommitLines: 120},
		{Name: "origin/stale", Active: false, CommitCount: 2, CommitterCount: 1, LargestCommitLines: 40},
	}

	summary := SummarizeBranches(stats)

	assert.Equal(t, 3, summary.TotalBranches)
	assert.Equal(t, 2, summary.ActiveBranches)
	assert.Equal(t, 1, summary.InactiveBranches)
	assert.Equal(t, 18, summary.TotalCommits)
	assert.InDelta(t, 6.0, summary.AvgCommits, 0.001)
	assert.Equal(t, 3, summary.MaxCommitters)
	assert.InDelta(t, 2.0, summary.AvgCommitters, 0.001)
	assert.Equal(t, 500, summary.LargestCommitLines)
}

func TestSummarizeBranchesEmpty(t *testing.T) {
	summary := SummarizeBranches(nil)
	assert.Zero(t, summary.TotalBranches)
	assert.Zero(t, summary.AvgCommits)
	assert.Zero(t, summary.AvgCommitters)
}
