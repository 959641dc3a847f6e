// Package output renders analysis results for the terminal: aligned tables
// for humans, JSON for tooling, CSV matching the layouts downstream
// spreadsheets already consume, and a self-contained HTML report.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects the rendering of a result.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format flag value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, or csv)", s)
	}
}

// riskEventHeader is the column layout spreadsheets built on the earlier
// tooling expect for simulated removals.
var riskEventHeader = []string{"Order", "Developer Email", "Files Impacted at Removal", "LoC Authored in Impacted Files"}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// truncate shortens s for a fixed-width table column.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
