package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// CouplingFormatter renders change-coupling pairs.
type CouplingFormatter struct {
	format Format
}

// NewCouplingFormatter creates a coupling formatter.
func NewCouplingFormatter(format Format) *CouplingFormatter {
	return &CouplingFormatter{format: format}
}

// Format writes the pairs in the configured format.
func (f *CouplingFormatter) Format(w io.Writer, repo string, pairs []analysis.CouplingPair, threshold float64) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo      string                  `json:"repo"`
			Threshold float64                 `json:"threshold"`
			Pairs     []analysis.CouplingPair `json:"pairs"`
		}{repo, threshold, pairs})
	case FormatCSV:
		return f.formatCSV(w, pairs)
	default:
		return f.formatTable(w, repo, pairs, threshold)
	}
}

func (f *CouplingFormatter) formatTable(w io.Writer, repo string, pairs []analysis.CouplingPair, threshold float64) error {
	if len(pairs) == 0 {
		fmt.Fprintf(w, "No file pairs in %s with average coupling >= %.0f%%\n", repo, threshold)
		return nil
	}

	fmt.Fprintf(w, "Change Coupling: %s (%d pairs with average >= %.0f%%)\n\n", repo, len(pairs), threshold)
	fmt.Fprintf(w, "%-40s %-40s %8s %7s\n", "File 1", "File 2", "Together", "Avg %")
	fmt.Fprintln(w, strings.Repeat("─", 98))
	for _, p := range pairs {
		fmt.Fprintf(w, "%-40s %-40s %8d %6.1f%%\n",
			truncate(p.File1, 40), truncate(p.File2, 40), p.CommitsTogether, p.AvgCoupling)
	}
	return nil
}

func (f *CouplingFormatter) formatCSV(w io.Writer, pairs []analysis.CouplingPair) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"file1", "file2", "commits_together", "file1_commits",
		"file2_commits", "coupling_1_to_2", "coupling_2_to_1", "avg_coupling",
	}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := writer.Write([]string{
			p.File1,
			p.File2,
			strconv.Itoa(p.CommitsTogether),
			strconv.Itoa(p.File1Commits),
			strconv.Itoa(p.File2Commits),
			strconv.FormatFloat(p.Coupling1To2, 'f', 2, 64),
			strconv.FormatFloat(p.Coupling2To1, 'f', 2, 64),
			strconv.FormatFloat(p.AvgCoupling, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	return nil
}
