package output

import (
	"html/template"
	"io"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/github"
)

// ReportData feeds the HTML report. Enrichment and Narrative are optional;
// their sections are omitted when absent.
type ReportData struct {
	Repo        string
	CommitSHA   string
	GeneratedAt time.Time
	Enrichment  *github.Enrichment
	TruckFactor *analysis.TruckFactorReport
	Hotspots    []analysis.Hotspot
	Narrative   string
}

// WriteHTMLReport renders a self-contained HTML document, no external
// assets, so the file can be mailed around or archived as-is.
func WriteHTMLReport(w io.Writer, data *ReportData) error {
	return reportTemplate.Execute(w, data)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"pct": func(f float64) float64 { return f * 100 },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ownership risk: {{.Repo}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
h1 { font-size: 1.5rem; border-bottom: 1px solid #d0d7de; padding-bottom: 0.4rem; }
h2 { font-size: 1.15rem; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; margin: 0.8rem 0; }
th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #d0d7de; }
th.num, td.num { text-align: right; }
.meta { color: #57606a; }
.badge { padding: 0.1rem 0.5rem; border-radius: 0.6rem; font-size: 0.8rem; font-weight: 600; vertical-align: middle; }
.HIGH { background: #ffebe9; color: #cf222e; }
.MEDIUM { background: #fff8c5; color: #9a6700; }
.LOW { background: #dafbe1; color: #116329; }
pre { background: #f6f8fa; padding: 0.8rem; border-radius: 0.4rem; white-space: pre-wrap; }
footer { margin-top: 2.5rem; color: #57606a; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Ownership risk report</h1>
<p class="meta">{{.Repo}}{{if .CommitSHA}} @ {{printf "%.7s" .CommitSHA}}{{end}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
{{with .Enrichment}}
<p class="meta">{{.FullName}}{{if .Description}}: {{.Description}}{{end}} &middot; default branch {{.DefaultBranch}} &middot; {{.Stars}} stars &middot; {{.Contributors}} contributors &middot; {{.OpenIssues}} open issues</p>
{{end}}
{{with .TruckFactor}}
<h2>Truck factor: {{.TruckFactor}} <span class="badge {{.RiskLevel}}">{{.RiskLevel}} risk</span></h2>
<p>{{.FilesOwned}} of {{.FilesAnalyzed}} analyzed files have a primary owner, spread over {{.Authors}} contributors. The simulation removes the highest-impact contributor until {{printf "%.0f" (pct .OrphanThreshold)}}% of owned files are orphaned.</p>
{{if .RiskEvents}}
<table>
<tr><th class="num">Order</th><th>Developer</th><th class="num">Files impacted</th><th class="num">Lines impacted</th></tr>
{{range $i, $e := .RiskEvents}}
<tr><td class="num">{{inc $i}}</td><td>{{$e.Author}}</td><td class="num">{{$e.FilesImpacted}}</td><td class="num">{{$e.LOCImpacted}}</td></tr>
{{end}}
</table>
{{else}}
<p>No removals simulated: no file has attributable line ownership.</p>
{{end}}
{{end}}
{{if .Hotspots}}
<h2>Hotspots</h2>
<table>
<tr><th>File</th><th class="num">LOC</th><th class="num">Revisions</th><th class="num">Authors</th><th class="num">Score</th></tr>
{{range .Hotspots}}
<tr><td>{{.File}}</td><td class="num">{{.LinesOfCode}}</td><td class="num">{{.Revisions}}</td><td class="num">{{.Authors}}</td><td class="num">{{.Score}}</td></tr>
{{end}}
</table>
{{end}}
{{if .Narrative}}
<h2>Narrative</h2>
<pre>{{.Narrative}}</pre>
{{end}}
<footer>Generated by gitmetrics from git history; attribution follows line ownership, not expertise.</footer>
</body>
</html>
`
