package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

func TestClassifyTruckFactor(t *testing.T) {
	tests := []struct {
		name        string
		truckFactor int
		authors     int
		want        RiskLevel
	}{
		{"single point of failure", 1, 10, RiskLevelHigh},
		{"zero factor", 0, 5, RiskLevelHigh},
		{"no attributable authors", 0, 0, RiskLevelHigh},
		{"two key people", 2, 8, RiskLevelMedium},
		{"three key people", 3, 4, RiskLevelMedium},
		{"broad ownership", 4, 20, RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTruckFactor(tt.truckFactor, tt.authors))
		})
	}
}

func TestNewTruckFactorReport(t *testing.T) {
	report := &ownership.Report{
		TruckFactor: 1,
		RiskEvents: []ownership.RiskEvent{
			{Author: "alice@x.com", FilesImpacted: 12, LOCImpacted: 3400},
		},
		OrphanThreshold: 0.5,
		FilesAnalyzed:   20,
		FilesOwned:      18,
		Authors:         6,
	}

	wrapped := NewTruckFactorReport(report)
	assert.Equal(t, RiskLevelHigh, wrapped.RiskLevel)
	assert.Equal(t, 1, wrapped.TruckFactor)

	evidence := wrapped.FormatEvidence()
	assert.Contains(t, evidence, "Truck factor 1 of 6 contributors")
	assert.Contains(t, evidence, "HIGH")
	assert.Contains(t, evidence, "alice@x.com")
}

func TestFormatEvidenceNoOwnership(t *testing.T) {
	wrapped := NewTruckFactorReport(&ownership.Report{OrphanThreshold: 0.5})
	assert.Contains(t, wrapped.FormatEvidence(), "truck factor 0")
}
