package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// TruckFactorFormatter renders a classified ownership simulation.
type TruckFactorFormatter struct {
	format Format
}

// NewTruckFactorFormatter creates a truck factor formatter.
func NewTruckFactorFormatter(format Format) *TruckFactorFormatter {
	return &TruckFactorFormatter{format: format}
}

// Format writes the report in the configured format.
func (f *TruckFactorFormatter) Format(w io.Writer, repo string, report *analysis.TruckFactorReport) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo string `json:"repo"`
			*analysis.TruckFactorReport
		}{repo, report})
	case FormatCSV:
		return f.formatCSV(w, report)
	default:
		return f.formatTable(w, repo, report)
	}
}

func (f *TruckFactorFormatter) formatTable(w io.Writer, repo string, report *analysis.TruckFactorReport) error {
	fmt.Fprintf(w, "Truck Factor: %s\n\n", repo)
	fmt.Fprintf(w, "Truck factor: %d (%s risk)\n", report.TruckFactor, report.RiskLevel)
	fmt.Fprintf(w, "Files analyzed: %d (%d with a primary owner)\n", report.FilesAnalyzed, report.FilesOwned)
	fmt.Fprintf(w, "Distinct contributors: %d\n", report.Authors)
	fmt.Fprintf(w, "Orphan threshold: %.0f%%\n", report.OrphanThreshold*100)

	if len(report.RiskEvents) == 0 {
		fmt.Fprintln(w, "\nNo removals simulated: no file has attributable line ownership.")
		return nil
	}

	fmt.Fprintln(w, "\nRemovals in impact order:")
	fmt.Fprintf(w, "%5s  %-44s %6s %8s\n", "Order", "Developer", "Files", "Lines")
	fmt.Fprintln(w, strings.Repeat("─", 67))
	for i, event := range report.RiskEvents {
		fmt.Fprintf(w, "%5d  %-44s %6d %8d\n",
			i+1, truncate(event.Author, 44), event.FilesImpacted, event.LOCImpacted)
	}

	fmt.Fprintf(w, "\n%s\n", report.FormatEvidence())
	return nil
}

func (f *TruckFactorFormatter) formatCSV(w io.Writer, report *analysis.TruckFactorReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(riskEventHeader); err != nil {
		return err
	}
	for i, event := range report.RiskEvents {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			event.Author,
			strconv.Itoa(event.FilesImpacted),
			strconv.Itoa(event.LOCImpacted),
		}); err != nil {
			return err
		}
	}
	return nil
}
