package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// BranchFormatter renders per-branch statistics and their roll-up.
type BranchFormatter struct {
	format Format
}

// NewBranchFormatter creates a branch formatter.
func NewBranchFormatter(format Format) *BranchFormatter {
	return &BranchFormatter{format: format}
}

// Format writes the statistics in the configured format.
func (f *BranchFormatter) Format(w io.Writer, repo string, stats []analysis.BranchStats, summary analysis.BranchSummary) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo     string                 `json:"repo"`
			Summary  analysis.BranchSummary `json:"summary"`
			Branches []analysis.BranchStats `json:"branches"`
		}{repo, summary, stats})
	case FormatCSV:
		return f.formatCSV(w, stats)
	default:
		return f.formatTable(w, repo, stats, summary)
	}
}

func (f *BranchFormatter) formatTable(w io.Writer, repo string, stats []analysis.BranchStats, summary analysis.BranchSummary) error {
	if len(stats) == 0 {
		fmt.Fprintf(w, "No remote branches found in %s\n", repo)
		return nil
	}

	fmt.Fprintf(w, "Branches: %s (%d total, %d active)\n\n", repo, summary.TotalBranches, summary.ActiveBranches)
	fmt.Fprintf(w, "%-40s %8s %10s %7s %12s %9s\n", "Branch", "Commits", "Committers", "Active", "Inactive(d)", "Largest")
	fmt.Fprintln(w, strings.Repeat("─", 91))
	for _, s := range stats {
		active := "no"
		if s.Active {
			active = "yes"
		}
		fmt.Fprintf(w, "%-40s %8d %10d %7s %12.1f %9d\n",
			truncate(s.Name, 40), s.CommitCount, s.CommitterCount, active, s.InactiveDays, s.LargestCommitLines)
	}

	fmt.Fprintf(w, "\n%d commits across %d branches (avg %.1f); up to %d committers on one branch; largest commit moved %d lines\n",
		summary.TotalCommits, summary.TotalBranches, summary.AvgCommits, summary.MaxCommitters, summary.LargestCommitLines)
	return nil
}

func (f *BranchFormatter) formatCSV(w io.Writer, stats []analysis.BranchStats) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"branch_name", "creation_date", "last_commit_date", "lifetime_days", "inactive_days",
		"is_active", "commit_count", "committer_count", "largest_commit_lines", "largest_commit_hash",
	}); err != nil {
		return err
	}
	for _, s := range stats {
		if err := writer.Write([]string{
			s.Name,
			s.CreationDate.Format(time.RFC3339),
			s.LastCommitDate.Format(time.RFC3339),
			fmt.Sprintf("%.2f", s.LifetimeDays),
			fmt.Sprintf("%.2f", s.InactiveDays),
			strconv.FormatBool(s.Active),
			strconv.Itoa(s.CommitCount),
			strconv.Itoa(s.CommitterCount),
			strconv.Itoa(s.LargestCommitLines),
			s.LargestCommitSHA,
		}); err != nil {
			return err
		}
	}
	return nil
}
