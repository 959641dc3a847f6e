package mcp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtful-solutions/metrics/internal/config"
	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Directory = t.TempDir()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewServer(cfg, logger, "test")
}

// initToolRepo builds a two-author repository so the simulation has
// something to remove.
func initToolRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := exec.Command("git", "init", dir).Run(); err != nil {
		t.Skip("git not available")
	}
	gitIn(t, dir, "config", "user.email", "test@example.com")
	gitIn(t, dir, "config", "user.name", "Test User")
	commitFile(t, dir, "alpha.go", "package alpha\n\nfunc A() int { return 1 }\n", "alice@example.com")
	commitFile(t, dir, "beta.go", "package beta\n\nfunc B() int { return 2 }\n", "bob@example.com")
	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func commitFile(t *testing.T, dir, name, content, email string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	gitIn(t, dir, "add", name)
	gitIn(t, dir, "-c", "user.email="+email, "-c", "user.name=Test User", "commit", "-m", "update "+name)
}

func TestTruckFactorTool(t *testing.T) {
	dir := initToolRepo(t)
	s := newTestServer(t)

	_, report, err := s.truckFactor(context.Background(), nil, TruckFactorInput{Path: dir})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Equal(t, 2, report.FilesOwned)
	assert.Equal(t, 2, report.Authors)
	assert.GreaterOrEqual(t, report.TruckFactor, 1)
	assert.NotEmpty(t, report.RiskEvents)
	assert.Equal(t, s.cfg.Analysis.OrphanThreshold, report.OrphanThreshold)
}

func TestTruckFactorToolThresholdOverride(t *testing.T) {
	dir := initToolRepo(t)
	s := newTestServer(t)

	_, report, err := s.truckFactor(context.Background(), nil, TruckFactorInput{Path: dir, Threshold: 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.9, report.OrphanThreshold)
}

func TestTruckFactorToolRejectsNonRepo(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.truckFactor(context.Background(), nil, TruckFactorInput{Path: t.TempDir()})
	assert.Error(t, err)
}

func TestHotspotsTool(t *testing.T) {
	dir := initToolRepo(t)
	s := newTestServer(t)

	_, out, err := s.hotspots(context.Background(), nil, HotspotsInput{Path: dir, Top: 1})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, dir, out.Repo)
	assert.Len(t, out.Hotspots, 1)
}

func TestHotspotsToolDefaultTop(t *testing.T) {
	dir := initToolRepo(t)
	s := newTestServer(t)

	_, out, err := s.hotspots(context.Background(), nil, HotspotsInput{Path: dir})
	require.NoError(t, err)
	assert.Len(t, out.Hotspots, 2)
}

func TestLoadIgnore(t *testing.T) {
	dir := initToolRepo(t)
	repo, err := gitrepo.Open(context.Background(), dir, nil)
	require.NoError(t, err)

	s := newTestServer(t)

	// No ignore file configured.
	s.cfg.Analysis.IgnoreFile = ""
	ignore, err := s.loadIgnore(repo)
	require.NoError(t, err)
	assert.Nil(t, ignore)

	// Relative names resolve against the repository root.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".metricsignore"), []byte("vendor/\n"), 0644))
	s.cfg.Analysis.IgnoreFile = ".metricsignore"
	ignore, err = s.loadIgnore(repo)
	require.NoError(t, err)
	require.NotNil(t, ignore)
	assert.True(t, ignore.Match("vendor/dep.go"))
	assert.False(t, ignore.Match("main.go"))
}
