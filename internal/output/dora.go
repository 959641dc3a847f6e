package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// DORAFormatter renders the four DORA estimates.
type DORAFormatter struct {
	format Format
}

// NewDORAFormatter creates a DORA formatter.
func NewDORAFormatter(format Format) *DORAFormatter {
	return &DORAFormatter{format: format}
}

// Format writes the metrics in the configured format.
func (f *DORAFormatter) Format(w io.Writer, repo string, metrics *analysis.DORAMetrics) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo string `json:"repo"`
			*analysis.DORAMetrics
		}{repo, metrics})
	case FormatCSV:
		return f.formatCSV(w, metrics)
	default:
		return f.formatTable(w, repo, metrics)
	}
}

func (f *DORAFormatter) formatTable(w io.Writer, repo string, m *analysis.DORAMetrics) error {
	fmt.Fprintf(w, "DORA Metrics: %s\n", repo)
	fmt.Fprintf(w, "Window: %s to %s (%d days)\n",
		m.WindowStart.Format("2006-01-02"), m.WindowEnd.Format("2006-01-02"), m.WindowDays)

	source := "merge commits"
	if m.TagBased {
		source = "release tags"
	}
	fmt.Fprintf(w, "Deployments: %d from %s, merges: %d\n\n", m.Deployments, source, m.Merges)

	fmt.Fprintf(w, "1. Deployment frequency:  %.2f/day (%s)\n", m.DeploymentFrequency, m.DeploymentFrequencyLevel)
	fmt.Fprintf(w, "2. Lead time for changes: %.2f hours (%s)\n", m.LeadTimeHours, m.LeadTimeLevel)
	fmt.Fprintf(w, "3. Change failure rate:   %.2f%% (%s)\n", m.ChangeFailureRate*100, m.ChangeFailureRateLevel)
	fmt.Fprintf(w, "4. Time to restore:       %.2f hours (%s)\n", m.TimeToRestoreHours, m.TimeToRestoreLevel)

	fmt.Fprintln(w, "\nEstimated from git history alone; CI/CD and incident systems hold the real numbers.")
	return nil
}

func (f *DORAFormatter) formatCSV(w io.Writer, m *analysis.DORAMetrics) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"metric", "value", "unit", "level"}); err != nil {
		return err
	}
	rows := [][]string{
		{"deployment_frequency", fmt.Sprintf("%.2f", m.DeploymentFrequency), "per_day", string(m.DeploymentFrequencyLevel)},
		{"lead_time_for_changes", fmt.Sprintf("%.2f", m.LeadTimeHours), "hours", string(m.LeadTimeLevel)},
		{"change_failure_rate", fmt.Sprintf("%.2f", m.ChangeFailureRate*100), "percent", string(m.ChangeFailureRateLevel)},
		{"time_to_restore", fmt.Sprintf("%.2f", m.TimeToRestoreHours), "hours", string(m.TimeToRestoreLevel)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
