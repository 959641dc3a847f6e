package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
)

func commitTouching(email string, files ...string) gitrepo.Commit {
	return gitrepo.Commit{AuthorEmail: email, Files: files}
}

func TestHotspots(t *testing.T) {
	commits := []gitrepo.Commit{
		commitTouching("alice@example.com", "a.go", "b.go"),
		commitTouching("alice@example.com", "a.go"),
		commitTouching("bob@example.com", "a.go"),
		commitTouching("bob@example.com", "gen/x.pb.go"),
		commitTouching("carol@example.com", "deleted.go"),
	}
	loc := map[string]int{"a.go": 100, "b.go": 50, "c.go": 10, "gen/x.pb.go": 77}
	tracked := []string{"a.go", "b.go", "c.go", "gen/x.pb.go"}
	ignore := gitrepo.NewIgnoreMatcher([]string{"**/*.pb.go"})

	hotspots := Hotspots(commits, loc, tracked, ignore)
	require.Len(t, hotspots, 3)

	top := hotspots[0]
	assert.Equal(t, "a.go", top.File)
	assert.Equal(t, 100, top.LinesOfCode)
	assert.Equal(t, 3, top.Revisions)
	assert.Equal(t, 2, top.Authors)
	assert.Equal(t, 600, top.Score)

	assert.Equal(t, "b.go", hotspots[1].File)
	assert.Equal(t, 50, hotspots[1].Score)

	// History-less files trail with a zero score.
	assert.Equal(t, "c.go", hotspots[2].File)
	assert.Zero(t, hotspots[2].Score)
	assert.Zero(t, hotspots[2].Revisions)
}

func TestHotspotsNormalizesAuthors(t *testing.T) {
	commits := []gitrepo.Commit{
		commitTouching("Jane.Doe@gmail.com", "a.go"),
		commitTouching("janedoe+work@gmail.com", "a.go"),
		commitTouching("", "a.go"),
	}
	loc := map[string]int{"a.go": 10}

	hotspots := Hotspots(commits, loc, []string{"a.go"}, nil)
	require.Len(t, hotspots, 1)
	assert.Equal(t, 3, hotspots[0].Revisions)
	assert.Equal(t, 1, hotspots[0].Authors, "gmail spellings collapse, empty author does not count")
	assert.Equal(t, 30, hotspots[0].Score)
}

func TestHotspotsEmptyHistory(t *testing.T) {
	hotspots := Hotspots(nil, map[string]int{"a.go": 5}, []string{"a.go"}, nil)
	require.Len(t, hotspots, 1)
	assert.Zero(t, hotspots[0].Score)
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "three.go"), []byte("a\nb\nc\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial.go"), []byte("a\nb"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.go"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x7f, 0x00, 0x01, 0x02}, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.go"), []byte("x\n"), 0644))

	loc := CountLines(dir, []string{"three.go", "partial.go", "empty.go", "blob.bin", "sub/nested.go", "missing.go"})

	assert.Equal(t, 3, loc["three.go"])
	assert.Equal(t, 2, loc["partial.go"], "unterminated last line still counts")
	assert.Equal(t, 1, loc["sub/nested.go"])

	_, ok := loc["empty.go"]
	assert.False(t, ok, "empty files are unmeasured")
	_, ok = loc["blob.bin"]
	assert.False(t, ok, "binary files are unmeasured")
	_, ok = loc["missing.go"]
	assert.False(t, ok)
}
