package analysis

import (
	"fmt"

	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

// TruckFactorReport wraps the ownership simulation outcome with a risk
// classification.
type TruckFactorReport struct {
	ownership.Report
	RiskLevel RiskLevel `json:"risk_level"`
}

// NewTruckFactorReport classifies a finished simulation.
func NewTruckFactorReport(report *ownership.Report) *TruckFactorReport {
	return &TruckFactorReport{
		Report:    *report,
		RiskLevel: ClassifyTruckFactor(report.TruckFactor, report.Authors),
	}
}

// ClassifyTruckFactor maps a truck factor to a risk level. A repository
// hinging on a single contributor is high risk regardless of team size;
// two or three is medium; anything broader is low. Repositories with no
// attributable authors classify high, there is nobody to lose knowledge to
// and nobody holding it.
func ClassifyTruckFactor(truckFactor, authors int) RiskLevel {
	if authors == 0 || truckFactor <= 1 {
		return RiskLevelHigh
	}
	if truckFactor <= 3 {
		return RiskLevelMedium
	}
	return RiskLevelLow
}

// FormatEvidence generates a human-readable summary line.
func (t *TruckFactorReport) FormatEvidence() string {
	if t.FilesOwned == 0 {
		return "No attributable line ownership found (truck factor 0)"
	}

	evidence := fmt.Sprintf("Truck factor %d of %d contributors (%s risk): losing %d would orphan %.0f%% of %d owned files",
		t.TruckFactor, t.Authors, t.RiskLevel, t.TruckFactor, t.OrphanThreshold*100, t.FilesOwned)

	if len(t.RiskEvents) > 0 {
		top := t.RiskEvents[0]
		evidence += fmt.Sprintf(" | Highest impact: %s (%d files, %d lines)", top.Author, top.FilesImpacted, top.LOCImpacted)
	}
	return evidence
}
