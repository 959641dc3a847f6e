package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

// initTestRepo creates an empty repository in a temp directory, skipping the
// test when git is not installed.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := exec.Command("git", "init", dir).Run(); err != nil {
		t.Skip("git not available")
	}
	gitIn(t, dir, "config", "user.email", "test@example.com")
	gitIn(t, dir, "config", "user.name", "Test User")
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

// commitFile writes name under dir and commits it as the given author.
func commitFile(t *testing.T, dir, name, content, email string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	gitIn(t, dir, "add", name)
	gitIn(t, dir, "-c", "user.email="+email, "-c", "user.name=Test User", "commit", "-m", "update "+name)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestOpen(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if repo.Path() != dir {
		t.Errorf("Path() = %q, want %q", repo.Path(), dir)
	}

	// A plain directory must be rejected.
	if _, err := Open(context.Background(), t.TempDir(), testLogger()); err == nil {
		t.Error("Open() expected error for non-repository directory")
	}
}

func TestHeadSHA(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	// No commits yet.
	if _, err := repo.HeadSHA(context.Background()); err == nil {
		t.Error("HeadSHA() expected error before first commit")
	}

	commitFile(t, dir, "a.txt", "hello\n", "a@example.com")

	sha, err := repo.HeadSHA(context.Background())
	if err != nil {
		t.Fatalf("HeadSHA() error = %v", err)
	}
	if len(sha) != 40 {
		t.Errorf("HeadSHA() length = %d, want 40", len(sha))
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := initTestRepo(t)
	commitFile(t, dir, "a.txt", "hello\n", "a@example.com")

	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	branch, err := repo.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if branch != "main" && branch != "master" {
		t.Logf("current branch: %s (expected main or master)", branch)
	}
}

func TestRemoteURL(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(context.Background(), dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.RemoteURL(context.Background()); err == nil {
		t.Error("RemoteURL() expected error when no remote configured")
	}

	want := "https://github.com/acme/widgets.git"
	gitIn(t, dir, "remote", "add", "origin", want)

	url, err := repo.RemoteURL(context.Background())
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if url != want {
		t.Errorf("RemoteURL() = %q, want %q", url, want)
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantHost  string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "HTTPS with .git",
			url:       "https://github.com/acme/widgets.git",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "HTTPS without .git",
			url:       "https://github.com/acme/widgets",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "HTTP",
			url:       "http://github.com/acme/widgets.git",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "SSH format",
			url:       "git@github.com:acme/widgets.git",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "SSH without .git",
			url:       "git@github.com:acme/widgets",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "Git protocol",
			url:       "git://github.com/acme/widgets.git",
			wantHost:  "github.com",
			wantOwner: "acme",
			wantName:  "widgets",
		},
		{
			name:      "GitLab HTTPS",
			url:       "https://gitlab.com/myorg/myrepo.git",
			wantHost:  "gitlab.com",
			wantOwner: "myorg",
			wantName:  "myrepo",
		},
		{
			name:    "Invalid URL",
			url:     "not-a-git-url",
			wantErr: true,
		},
		{
			name:    "Missing repo segment",
			url:     "https://github.com/onlyonepart",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, owner, name, err := ParseRemoteURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRemoteURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if owner != tt.wantOwner {
				t.Errorf("owner = %q, want %q", owner, tt.wantOwner)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}
