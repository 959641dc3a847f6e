// Package ownership implements the ownership risk engine: per-file line
// authorship histograms, primary-owner assignment, and the greedy
// degradation simulation that yields a truck factor.
package ownership

// LineAttribution is one attributable source line, carrying the raw author
// address exactly as the history provider extracted it.
type LineAttribution struct {
	AuthorAddress string
}

// Histogram maps normalized author identities to the number of lines they
// authored within a single file. Built once per file, read-only afterwards.
type Histogram map[string]int

// PrimaryOwner returns the identity with the most attributed lines, breaking
// ties toward the lexicographically smallest identity. ok is false for an
// empty histogram.
func (h Histogram) PrimaryOwner() (owner string, ok bool) {
	best := ""
	bestCount := 0
	for author, count := range h {
		switch {
		case count > bestCount:
			best, bestCount = author, count
		case count == bestCount && bestCount > 0 && author < best:
			best = author
		}
	}
	return best, bestCount > 0
}

// Lines returns the total attributed line count across all authors.
func (h Histogram) Lines() int {
	total := 0
	for _, count := range h {
		total += count
	}
	return total
}

// RiskEvent records one simulated contributor removal: who left, how many
// files lost their primary owner, and how many of their attributed lines sit
// in those files.
type RiskEvent struct {
	Author        string `json:"author"`
	FilesImpacted int    `json:"files_impacted"`
	LOCImpacted   int    `json:"loc_impacted"`
}

// Report is the outcome of one ownership risk run. TruckFactor always equals
// len(RiskEvents).
type Report struct {
	TruckFactor     int         `json:"truck_factor"`
	RiskEvents      []RiskEvent `json:"risk_events"`
	OrphanThreshold float64     `json:"orphan_threshold"`
	FilesAnalyzed   int         `json:"files_analyzed"`
	FilesOwned      int         `json:"files_owned"`
	Authors         int         `json:"authors"`
}
