// Package analysis computes repository health metrics on top of the raw
// history primitives: truck factor risk, hotspots, change coupling,
// organizational friction, DORA approximations, branch statistics, and
// activity summaries.
package analysis

// RiskLevel classifies a metric outcome.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// String returns the string representation of RiskLevel.
func (r RiskLevel) String() string {
	return string(r)
}
