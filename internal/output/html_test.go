package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
	"github.com/thoughtful-solutions/metrics/internal/github"
	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

func TestWriteHTMLReport(t *testing.T) {
	data := &ReportData{
		Repo:        "/repo",
		CommitSHA:   "abcdef0123456789",
		GeneratedAt: time.Date(2025, 8, 21, 10, 0, 0, 0, time.UTC),
		Enrichment: &github.Enrichment{
			FullName:      "acme/widgets",
			Description:   "Widget factory",
			DefaultBranch: "main",
			Stars:         42,
			OpenIssues:    3,
			Contributors:  9,
		},
		TruckFactor: sampleReport(),
		Hotspots: []analysis.Hotspot{
			{File: "a.go", LinesOfCode: 100, Revisions: 10, Authors: 3, Score: 3000},
		},
		Narrative: "Knowledge concentrates on two people.",
	}

	var buf bytes.Buffer
	if err := WriteHTMLReport(&buf, data); err != nil {
		t.Fatalf("WriteHTMLReport() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<title>Ownership risk: /repo</title>",
		"@ abcdef0",
		"acme/widgets",
		"Truck factor: 2",
		"MEDIUM risk",
		"alice@example.com",
		"a.go",
		"Knowledge concentrates on two people.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteHTMLReportEscapesAuthors(t *testing.T) {
	report := analysis.NewTruckFactorReport(&ownership.Report{
		TruckFactor: 1,
		RiskEvents: []ownership.RiskEvent{
			{Author: "mallory<script>alert(1)</script>@example.com", FilesImpacted: 1, LOCImpacted: 1},
		},
		OrphanThreshold: 0.5,
		FilesAnalyzed:   1,
		FilesOwned:      1,
		Authors:         1,
	})

	var buf bytes.Buffer
	err := WriteHTMLReport(&buf, &ReportData{Repo: "/repo", GeneratedAt: time.Now(), TruckFactor: report})
	if err != nil {
		t.Fatalf("WriteHTMLReport() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("author address rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped author address in report")
	}
}

func TestWriteHTMLReportOmitsOptionalSections(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTMLReport(&buf, &ReportData{
		Repo:        "/repo",
		GeneratedAt: time.Now(),
		TruckFactor: sampleReport(),
	})
	if err != nil {
		t.Fatalf("WriteHTMLReport() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<h2>Hotspots</h2>") {
		t.Error("hotspot section rendered without data")
	}
	if strings.Contains(out, "<h2>Narrative</h2>") {
		t.Error("narrative section rendered without data")
	}
}
