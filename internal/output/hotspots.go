package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// HotspotFormatter renders ranked hotspots. The table shows the top slice;
// JSON and CSV always carry the full ranking.
type HotspotFormatter struct {
	format Format
}

// NewHotspotFormatter creates a hotspot formatter.
func NewHotspotFormatter(format Format) *HotspotFormatter {
	return &HotspotFormatter{format: format}
}

// Format writes the ranking, limiting the table to top rows when top > 0.
func (f *HotspotFormatter) Format(w io.Writer, repo string, hotspots []analysis.Hotspot, top int) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo     string             `json:"repo"`
			Hotspots []analysis.Hotspot `json:"hotspots"`
		}{repo, hotspots})
	case FormatCSV:
		return f.formatCSV(w, hotspots)
	default:
		return f.formatTable(w, repo, hotspots, top)
	}
}

func (f *HotspotFormatter) formatTable(w io.Writer, repo string, hotspots []analysis.Hotspot, top int) error {
	if len(hotspots) == 0 {
		fmt.Fprintf(w, "No hotspots found in %s\n", repo)
		return nil
	}

	shown := len(hotspots)
	if top > 0 && top < shown {
		shown = top
	}
	fmt.Fprintf(w, "Hotspots: %s (showing %d of %d)\n\n", repo, shown, len(hotspots))

	fmt.Fprintf(w, "%-52s %8s %10s %8s %10s\n", "File", "LOC", "Revisions", "Authors", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 92))
	for _, h := range hotspots[:shown] {
		fmt.Fprintf(w, "%-52s %8d %10d %8d %10d\n",
			truncate(h.File, 52), h.LinesOfCode, h.Revisions, h.Authors, h.Score)
	}
	return nil
}

func (f *HotspotFormatter) formatCSV(w io.Writer, hotspots []analysis.Hotspot) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"file", "lines_of_code", "revisions", "authors", "score"}); err != nil {
		return err
	}
	for _, h := range hotspots {
		if err := writer.Write([]string{
			h.File,
			strconv.Itoa(h.LinesOfCode),
			strconv.Itoa(h.Revisions),
			strconv.Itoa(h.Authors),
			strconv.Itoa(h.Score),
		}); err != nil {
			return err
		}
	}
	return nil
}
