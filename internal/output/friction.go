package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// FrictionFormatter renders coordination hotspots. The table keeps to file
// and author count; the contributor addresses travel in JSON and CSV.
type FrictionFormatter struct {
	format Format
}

// NewFrictionFormatter creates a friction formatter.
func NewFrictionFormatter(format Format) *FrictionFormatter {
	return &FrictionFormatter{format: format}
}

// Format writes the flagged files in the configured format.
func (f *FrictionFormatter) Format(w io.Writer, repo string, files []analysis.FrictionFile, minAuthors int) error {
	switch f.format {
	case FormatJSON:
		return writeJSON(w, struct {
			Repo       string                  `json:"repo"`
			MinAuthors int                     `json:"min_authors"`
			Files      []analysis.FrictionFile `json:"files"`
		}{repo, minAuthors, files})
	case FormatCSV:
		return f.formatCSV(w, files)
	default:
		return f.formatTable(w, repo, files, minAuthors)
	}
}

func (f *FrictionFormatter) formatTable(w io.Writer, repo string, files []analysis.FrictionFile, minAuthors int) error {
	if len(files) == 0 {
		fmt.Fprintf(w, "No files in %s with %d or more distinct authors\n", repo, minAuthors)
		return nil
	}

	fmt.Fprintf(w, "Organisational Friction: %s\n", repo)
	fmt.Fprintf(w, "Files with %d or more distinct authors (coordination hotspots):\n\n", minAuthors)
	fmt.Fprintf(w, "%-60s %8s\n", "File", "Authors")
	fmt.Fprintln(w, strings.Repeat("─", 69))
	for _, file := range files {
		fmt.Fprintf(w, "%-60s %8d\n", truncate(file.File, 60), file.Authors)
	}
	return nil
}

func (f *FrictionFormatter) formatCSV(w io.Writer, files []analysis.FrictionFile) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"file", "authors", "emails"}); err != nil {
		return err
	}
	for _, file := range files {
		if err := writer.Write([]string{
			file.File,
			strconv.Itoa(file.Authors),
			strings.Join(file.Emails, ";"),
		}); err != nil {
			return err
		}
	}
	return nil
}
