package analysis

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
)

// PerformanceLevel buckets a DORA metric against the published benchmark
// bands.
type PerformanceLevel string

const (
	PerfElite  PerformanceLevel = "Elite"
	PerfHigh   PerformanceLevel = "High"
	PerfMedium PerformanceLevel = "Medium"
	PerfLow    PerformanceLevel = "Low"
)

var (
	deployTagPattern      = regexp.MustCompile(`v?\d+\.\d+\.\d+|release-|deploy-|prod-`)
	failureSubjectPattern = regexp.MustCompile(`\b(fix|hotfix|bugfix|bug|issue|incident)\b`)
	restoreSubjectPattern = regexp.MustCompile(`\b(hotfix|bugfix)\b`)
)

// DORAMetrics approximates the four DORA measurements from git history
// alone. Deployments come from release-looking tags, falling back to merge
// commits; failures and restores come from commit subjects. These are
// proxies, CI/CD and incident systems give the real numbers.
type DORAMetrics struct {
	DeploymentFrequency      float64          `json:"deployment_frequency"`
	LeadTimeHours            float64          `json:"lead_time_for_changes"`
	ChangeFailureRate        float64          `json:"change_failure_rate"`
	TimeToRestoreHours       float64          `json:"time_to_restore"`
	DeploymentFrequencyLevel PerformanceLevel `json:"deployment_frequency_level"`
	LeadTimeLevel            PerformanceLevel `json:"lead_time_level"`
	ChangeFailureRateLevel   PerformanceLevel `json:"change_failure_rate_level"`
	TimeToRestoreLevel       PerformanceLevel `json:"time_to_restore_level"`
	Deployments              int              `json:"deployments"`
	Merges                   int              `json:"merges"`
	WindowStart              time.Time        `json:"window_start"`
	WindowEnd                time.Time        `json:"window_end"`
	WindowDays               int              `json:"window_days"`
	TagBased                 bool             `json:"tag_based"`
}

// DORAOptions scope the calculation.
type DORAOptions struct {
	// Branch to analyze; empty means HEAD.
	Branch string
	// Start of the window; zero means the first commit.
	Start time.Time
	// End of the window; zero means now.
	End time.Time
}

// ComputeDORA walks tags, merges, and commit subjects on the given branch
// and derives the four metrics with their performance levels.
func ComputeDORA(ctx context.Context, repo *gitrepo.Repository, opts DORAOptions) (*DORAMetrics, error) {
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	start := opts.Start
	if start.IsZero() {
		first, err := repo.FirstCommitDate(ctx, opts.Branch)
		if err != nil {
			return nil, err
		}
		start = first
	}

	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}

	// Date filters reach git only when the caller pinned them; a derived
	// window stays unfiltered so boundary commits cannot slip out.
	var since, until string
	if !opts.Start.IsZero() {
		since = opts.Start.Format(time.RFC3339)
	}
	if !opts.End.IsZero() {
		until = opts.End.Format(time.RFC3339)
	}

	merges, err := repo.Log(ctx, gitrepo.LogOptions{Rev: opts.Branch, Since: since, Until: until, MergesOnly: true})
	if err != nil {
		return nil, err
	}

	metrics := &DORAMetrics{
		WindowStart: start,
		WindowEnd:   end,
		WindowDays:  days,
		Merges:      len(merges),
	}

	tags, err := repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	deployments := 0
	for _, tag := range tags {
		if !deployTagPattern.MatchString(tag.Name) {
			continue
		}
		if tag.Date.Before(start) || tag.Date.After(end) {
			continue
		}
		deployments++
	}
	metrics.TagBased = deployments > 0
	if deployments == 0 {
		// No release tags; treat merges to the integration branch as
		// deployments.
		deployments = len(merges)
	}
	metrics.Deployments = deployments
	metrics.DeploymentFrequency = float64(deployments) / float64(days)

	var leadTimes, restoreTimes []float64
	for _, merge := range merges {
		if len(merge.Parents) < 2 {
			continue
		}
		branchCommits, err := repo.CommitDates(ctx, merge.Parents[0]+".."+merge.Parents[1])
		if err != nil || len(branchCommits) == 0 {
			continue
		}
		earliest := branchCommits[len(branchCommits)-1]
		hours := merge.Date.Sub(earliest).Hours()
		leadTimes = append(leadTimes, hours)
		if restoreSubjectPattern.MatchString(strings.ToLower(merge.Subject)) {
			restoreTimes = append(restoreTimes, hours)
		}
	}
	metrics.LeadTimeHours = mean(leadTimes)
	metrics.TimeToRestoreHours = mean(restoreTimes)

	commits, err := repo.Log(ctx, gitrepo.LogOptions{Rev: opts.Branch, Since: since, Until: until})
	if err != nil {
		return nil, err
	}
	hotfixes := 0
	for _, c := range commits {
		if failureSubjectPattern.MatchString(strings.ToLower(c.Subject)) {
			hotfixes++
		}
	}
	if len(merges) > 0 {
		metrics.ChangeFailureRate = float64(hotfixes) / float64(len(merges))
	}

	metrics.DeploymentFrequencyLevel = ClassifyDeploymentFrequency(metrics.DeploymentFrequency)
	metrics.LeadTimeLevel = ClassifyLeadTime(metrics.LeadTimeHours)
	metrics.ChangeFailureRateLevel = ClassifyChangeFailureRate(metrics.ChangeFailureRate)
	metrics.TimeToRestoreLevel = ClassifyTimeToRestore(metrics.TimeToRestoreHours)
	return metrics, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ClassifyDeploymentFrequency buckets deployments per day.
func ClassifyDeploymentFrequency(perDay float64) PerformanceLevel {
	switch {
	case perDay >= 1:
		return PerfElite
	case perDay >= 1.0/7:
		return PerfHigh
	case perDay >= 1.0/30:
		return PerfMedium
	default:
		return PerfLow
	}
}

// ClassifyLeadTime buckets lead time for changes in hours.
func ClassifyLeadTime(hours float64) PerformanceLevel {
	switch {
	case hours <= 24:
		return PerfElite
	case hours <= 168:
		return PerfHigh
	case hours <= 720:
		return PerfMedium
	default:
		return PerfLow
	}
}

// ClassifyChangeFailureRate buckets the failure ratio (0 to 1).
func ClassifyChangeFailureRate(rate float64) PerformanceLevel {
	switch {
	case rate <= 0.15:
		return PerfElite
	case rate <= 0.30:
		return PerfHigh
	case rate <= 0.45:
		return PerfMedium
	default:
		return PerfLow
	}
}

// ClassifyTimeToRestore buckets restore time in hours.
func ClassifyTimeToRestore(hours float64) PerformanceLevel {
	switch {
	case hours <= 24:
		return PerfElite
	case hours <= 168:
		return PerfHigh
	case hours <= 720:
		return PerfMedium
	default:
		return PerfLow
	}
}
