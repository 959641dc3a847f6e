package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/storage"
)

// HistoryFormatter renders stored runs, both the listing and a single run
// with its simulated removals.
type HistoryFormatter struct {
	format Format
}

// NewHistoryFormatter creates a history formatter.
func NewHistoryFormatter(format Format) *HistoryFormatter {
	return &HistoryFormatter{format: format}
}

// FormatList writes the run listing, newest first as stored.
func (f *HistoryFormatter) FormatList(w io.Writer, runs []*storage.Run) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, runs)
	case FormatCSV:
		return f.formatListCSV(w, runs)
	default:
		return f.formatListTable(w, runs)
	}
}

// FormatRun writes one run with its events.
func (f *HistoryFormatter) FormatRun(w io.Writer, run *storage.Run) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, run)
	case FormatCSV:
		return f.formatRunCSV(w, run)
	default:
		return f.formatRunTable(w, run)
	}
}

func (f *HistoryFormatter) formatListTable(w io.Writer, runs []*storage.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-36s %-8s %3s %6s %6s %8s  %s\n",
		"ID", "Repo", "Commit", "TF", "Files", "Owned", "Authors", "Created")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, run := range runs {
		fmt.Fprintf(w, "%-8s  %-36s %-8s %3d %6d %6d %8d  %s\n",
			shortID(run.ID),
			truncate(run.Repo, 36),
			shortSHA(run.CommitSHA),
			run.TruckFactor,
			run.FilesAnalyzed,
			run.FilesOwned,
			run.Authors,
			run.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (f *HistoryFormatter) formatListCSV(w io.Writer, runs []*storage.Run) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"id", "repo", "commit_sha", "orphan_threshold", "truck_factor",
		"files_analyzed", "files_owned", "authors", "created_at",
	}); err != nil {
		return err
	}
	for _, run := range runs {
		if err := writer.Write([]string{
			run.ID,
			run.Repo,
			run.CommitSHA,
			strconv.FormatFloat(run.OrphanThreshold, 'f', 2, 64),
			strconv.Itoa(run.TruckFactor),
			strconv.Itoa(run.FilesAnalyzed),
			strconv.Itoa(run.FilesOwned),
			strconv.Itoa(run.Authors),
			run.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (f *HistoryFormatter) formatRunTable(w io.Writer, run *storage.Run) error {
	fmt.Fprintf(w, "Run %s\n\n", run.ID)
	fmt.Fprintf(w, "Repo: %s\n", run.Repo)
	fmt.Fprintf(w, "Commit: %s\n", run.CommitSHA)
	fmt.Fprintf(w, "Created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Truck factor: %d\n", run.TruckFactor)
	fmt.Fprintf(w, "Files analyzed: %d (%d with a primary owner)\n", run.FilesAnalyzed, run.FilesOwned)
	fmt.Fprintf(w, "Distinct contributors: %d\n", run.Authors)
	fmt.Fprintf(w, "Orphan threshold: %.0f%%\n", run.OrphanThreshold*100)

	if len(run.Events) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nRemovals in impact order:")
	fmt.Fprintf(w, "%5s  %-44s %6s %8s\n", "Order", "Developer", "Files", "Lines")
	fmt.Fprintln(w, strings.Repeat("─", 67))
	for _, event := range run.Events {
		fmt.Fprintf(w, "%5d  %-44s %6d %8d\n",
			event.Position, truncate(event.Author, 44), event.FilesImpacted, event.LOCImpacted)
	}
	return nil
}

func (f *HistoryFormatter) formatRunCSV(w io.Writer, run *storage.Run) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(riskEventHeader); err != nil {
		return err
	}
	for _, event := range run.Events {
		if err := writer.Write([]string{
			strconv.Itoa(event.Position),
			event.Author,
			strconv.Itoa(event.FilesImpacted),
			strconv.Itoa(event.LOCImpacted),
		}); err != nil {
			return err
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
