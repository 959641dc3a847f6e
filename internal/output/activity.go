package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// ActivityFormatter renders the repository pulse summary.
type ActivityFormatter struct {
	format Format
}

// NewActivityFormatter creates an activity formatter.
func NewActivityFormatter(format Format) *ActivityFormatter {
	return &ActivityFormatter{format: format}
}

// Format writes the summary in the configured format.
func (f *ActivityFormatter) Format(w io.Writer, repo string, summary *analysis.ActivitySummary) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo string `json:"repo"`
			*analysis.ActivitySummary
		}{repo, summary})
	case FormatCSV:
		return f.formatCSV(w, summary)
	default:
		return f.formatTable(w, repo, summary)
	}
}

func (f *ActivityFormatter) formatTable(w io.Writer, repo string, s *analysis.ActivitySummary) error {
	fmt.Fprintf(w, "Repository Activity: %s\n\n", repo)
	fmt.Fprintf(w, "Total commits: %d\n", s.TotalCommits)
	if !s.FirstCommitDate.IsZero() {
		fmt.Fprintf(w, "First commit: %s\n", s.FirstCommitDate.Format("2006-01-02"))
		fmt.Fprintf(w, "Latest commit: %s\n", s.LastCommitDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Contributors: %d\n", s.TotalContributors)
	fmt.Fprintf(w, "Remote branches: %d\n", s.RemoteBranches)
	fmt.Fprintf(w, "Tags: %d\n", s.Tags)

	fmt.Fprintf(w, "\nLast %d days:\n", s.WindowDays)
	fmt.Fprintf(w, "  Commits: %d\n", s.CommitsInWindow)
	fmt.Fprintf(w, "  Active contributors: %d\n", s.ActiveContributors)
	fmt.Fprintf(w, "  Lines added: %d\n", s.LinesAdded)
	fmt.Fprintf(w, "  Lines deleted: %d\n", s.LinesDeleted)
	fmt.Fprintf(w, "  Net change: %+d\n", s.NetChange)
	return nil
}

func (f *ActivityFormatter) formatCSV(w io.Writer, s *analysis.ActivitySummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"total_commits", "first_commit_date", "last_commit_date", "total_contributors",
		"remote_branches", "tags", "window_days", "commits_in_window",
		"active_contributors", "lines_added", "lines_deleted", "net_change",
	}); err != nil {
		return err
	}
	first, last := "", ""
	if !s.FirstCommitDate.IsZero() {
		first = s.FirstCommitDate.Format(time.RFC3339)
		last = s.LastCommitDate.Format(time.RFC3339)
	}
	return writer.Write([]string{
		strconv.Itoa(s.TotalCommits),
		first,
		last,
		strconv.Itoa(s.TotalContributors),
		strconv.Itoa(s.RemoteBranches),
		strconv.Itoa(s.Tags),
		strconv.Itoa(s.WindowDays),
		strconv.Itoa(s.CommitsInWindow),
		strconv.Itoa(s.ActiveContributors),
		strconv.Itoa(s.LinesAdded),
		strconv.Itoa(s.LinesDeleted),
		strconv.Itoa(s.NetChange),
	})
}
