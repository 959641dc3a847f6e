package analysis

import (
	"sort"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
)

// DefaultCouplingThreshold is the minimum average coupling percentage a
// pair must reach to be reported.
const DefaultCouplingThreshold = 30.0

// CouplingPair describes two files that change together: how often each
// changes at all, how often they change in the same commit, and the
// directional percentages derived from those counts.
type CouplingPair struct {
	File1           string  `json:"file1"`
	File2           string  `json:"file2"`
	CommitsTogether int     `json:"commits_together"`
	File1Commits    int     `json:"file1_commits"`
	File2Commits    int     `json:"file2_commits"`
	Coupling1To2    float64 `json:"coupling_1_to_2"`
	Coupling2To1    float64 `json:"coupling_2_to_1"`
	AvgCoupling     float64 `json:"avg_coupling"`
}

// Coupling finds file pairs whose average coupling percentage meets
// threshold, strongest first. Only files still in tracked count; ignored
// paths are dropped before pairing so a noisy generated file cannot flood
// the pair space.
func Coupling(commits []gitrepo.Commit, tracked []string, ignore *gitrepo.IgnoreMatcher, threshold float64) []CouplingPair {
	valid := make(map[string]bool, len(tracked))
	for _, f := range tracked {
		valid[f] = true
	}

	fileCounts := map[string]int{}
	type pairKey struct{ a, b string }
	pairCounts := map[pairKey]int{}

	for _, c := range commits {
		var files []string
		for _, f := range c.Files {
			if !valid[f] {
				continue
			}
			if ignore != nil && ignore.Match(f) {
				continue
			}
			files = append(files, f)
		}
		if len(files) == 0 {
			continue
		}

		for _, f := range files {
			fileCounts[f]++
		}
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				pairCounts[pairKey{files[i], files[j]}]++
			}
		}
	}

	var pairs []CouplingPair
	for key, together := range pairCounts {
		c1 := fileCounts[key.a]
		c2 := fileCounts[key.b]
		pct1 := float64(together) / float64(c1) * 100
		pct2 := float64(together) / float64(c2) * 100
		avg := (pct1 + pct2) / 2
		if avg < threshold {
			continue
		}
		pairs = append(pairs, CouplingPair{
			File1:           key.a,
			File2:           key.b,
			CommitsTogether: together,
			File1Commits:    c1,
			File2Commits:    c2,
			Coupling1To2:    pct1,
			Coupling2To1:    pct2,
			AvgCoupling:     avg,
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].AvgCoupling != pairs[j].AvgCoupling {
			return pairs[i].AvgCoupling > pairs[j].AvgCoupling
		}
		if pairs[i].File1 != pairs[j].File1 {
			return pairs[i].File1 < pairs[j].File1
		}
		return pairs[i].File2 < pairs[j].File2
	})
	return pairs
}
