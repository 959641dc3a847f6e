package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/identity"
)

// Hotspot scores one file by how large, how volatile, and how contested it
// is: lines of code times revisions times distinct authors.
type Hotspot struct {
	File        string `json:"file"`
	LinesOfCode int    `json:"lines_of_code"`
	Revisions   int    `json:"revisions"`
	Authors     int    `json:"authors"`
	Score       int    `json:"score"`
}

// Hotspots ranks tracked files by hotspot score, highest first. Files with
// history but no measurable size are dropped; files with size but no
// history trail the list with a zero score. Commits touching files that are
// no longer tracked contribute nothing.
func Hotspots(commits []gitrepo.Commit, loc map[string]int, tracked []string, ignore *gitrepo.IgnoreMatcher) []Hotspot {
	valid := make(map[string]bool, len(tracked))
	for _, f := range tracked {
		valid[f] = true
	}

	revisions := map[string]int{}
	authors := map[string]map[string]bool{}
	for _, c := range commits {
		author := identity.Normalize(c.AuthorEmail)
		for _, f := range c.Files {
			if !valid[f] {
				continue
			}
			if ignore != nil && ignore.Match(f) {
				continue
			}
			revisions[f]++
			if author != identity.Unknown {
				set, ok := authors[f]
				if !ok {
					set = map[string]bool{}
					authors[f] = set
				}
				set[author] = true
			}
		}
	}

	var hotspots []Hotspot
	for f, revs := range revisions {
		lines := loc[f]
		if lines <= 0 {
			continue
		}
		n := len(authors[f])
		hotspots = append(hotspots, Hotspot{
			File:        f,
			LinesOfCode: lines,
			Revisions:   revs,
			Authors:     n,
			Score:       lines * revs * n,
		})
	}
	for f, lines := range loc {
		if lines <= 0 || revisions[f] > 0 {
			continue
		}
		if !valid[f] || (ignore != nil && ignore.Match(f)) {
			continue
		}
		hotspots = append(hotspots, Hotspot{File: f, LinesOfCode: lines})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Score != hotspots[j].Score {
			return hotspots[i].Score > hotspots[j].Score
		}
		return hotspots[i].File < hotspots[j].File
	})
	return hotspots
}

// CountLines measures each tracked file in the working tree, skipping
// binaries, symlinks, and anything unreadable. Results map path to line
// count; absent entries mean the file could not be measured.
func CountLines(root string, files []string) map[string]int {
	loc := make(map[string]int, len(files))
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))

		info, err := os.Lstat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil || len(data) == 0 {
			continue
		}

		sample := data
		if len(sample) > 1024 {
			sample = sample[:1024]
		}
		if bytes.IndexByte(sample, 0) >= 0 {
			continue
		}

		lines := bytes.Count(data, []byte{'\n'})
		if data[len(data)-1] != '\n' {
			lines++
		}
		loc[f] = lines
	}
	return loc
}
