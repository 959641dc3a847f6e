package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/ownership"
)

// narrativeSystemPrompt frames the model as an advisor summarizing
// contributor concentration risk for an engineering audience.
const narrativeSystemPrompt = `You are an engineering advisor summarizing contributor risk for a software team.

You receive the results of an ownership analysis: each file in a repository is
assigned the contributor who authored most of its surviving lines, and a
simulation removes the most critical contributors one by one until a threshold
fraction of files has no remaining owner. The number of removals needed is the
truck factor.

Write a short narrative (at most four paragraphs) that:
1. States the truck factor and what it means for this repository.
2. Names the most critical contributors and the scale of their exposure.
3. Suggests two or three concrete mitigations (reviews, pairing, docs).

Be direct and specific. Do not restate the raw numbers as a list; weave them
into prose. Do not invent facts beyond the provided data.`

// Narrative renders the report into a prompt and asks the configured
// provider for a written summary.
func Narrative(ctx context.Context, c *Client, repo string, report *ownership.Report) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("no llm provider configured")
	}
	return c.Complete(ctx, narrativeSystemPrompt, buildNarrativePrompt(repo, report))
}

// buildNarrativePrompt flattens the report into the model's input text.
func buildNarrativePrompt(repo string, report *ownership.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", repo)
	fmt.Fprintf(&b, "Truck factor: %d\n", report.TruckFactor)
	fmt.Fprintf(&b, "Files analyzed: %d (with a primary owner: %d)\n",
		report.FilesAnalyzed, report.FilesOwned)
	fmt.Fprintf(&b, "Distinct contributors: %d\n", report.Authors)
	fmt.Fprintf(&b, "Orphan threshold: %.0f%% of owned files\n", report.OrphanThreshold*100)

	if len(report.RiskEvents) > 0 {
		b.WriteString("\nSimulated removals, most critical first:\n")
		for i, ev := range report.RiskEvents {
			fmt.Fprintf(&b, "%d. %s: %d files lose their owner, %d lines of their authorship affected\n",
				i+1, ev.Author, ev.FilesImpacted, ev.LOCImpacted)
		}
	}

	return b.String()
}
