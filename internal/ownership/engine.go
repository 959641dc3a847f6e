package ownership

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Provider supplies history inputs: the relevant file list and per-line
// attribution for each file. Implementations own all process and network
// concerns; the engine only ever sees extracted records or their absence.
type Provider interface {
	ListRelevantFiles(ctx context.Context) ([]string, error)
	LineAttribution(ctx context.Context, path string) ([]LineAttribution, error)
}

const (
	// DefaultOrphanThreshold stops the simulation once half of the owned
	// files are orphaned.
	DefaultOrphanThreshold = 0.5

	// DefaultWorkers bounds concurrent per-file attribution.
	DefaultWorkers = 8
)

// Options tune one ComputeOwnershipRisk run.
type Options struct {
	// OrphanThreshold stops the simulation once this fraction of owned
	// files is orphaned. Must be in (0, 1].
	OrphanThreshold float64

	// Workers bounds concurrent attribution; DefaultWorkers when <= 0.
	Workers int
}

// Engine computes ownership concentration risk for one repository state.
type Engine struct {
	provider Provider
	logger   *logrus.Logger
}

// NewEngine creates an engine over the given history provider.
func NewEngine(provider Provider, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{provider: provider, logger: logger}
}

// ComputeOwnershipRisk runs the full pipeline: list relevant files,
// attribute lines per file on a bounded worker pool, assign primary owners,
// and simulate degradation. Files yielding no attributable lines are
// excluded, and an empty file list produces a zero report rather than an
// error. The simulation itself is strictly sequential.
func (e *Engine) ComputeOwnershipRisk(ctx context.Context, opts Options) (*Report, error) {
	if opts.OrphanThreshold <= 0 || opts.OrphanThreshold > 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidThreshold, opts.OrphanThreshold)
	}

	files, err := e.provider.ListRelevantFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing relevant files: %w", err)
	}

	report := &Report{
		RiskEvents:      []RiskEvent{},
		OrphanThreshold: opts.OrphanThreshold,
		FilesAnalyzed:   len(files),
	}
	if len(files) == 0 {
		return report, nil
	}

	e.logger.WithField("files", len(files)).Debug("attributing line authorship")

	histograms, err := e.attributeAll(ctx, files, opts.Workers)
	if err != nil {
		return nil, err
	}

	owners, coverage := Assign(histograms)

	authors := make(map[string]struct{})
	for _, hist := range histograms {
		for author := range hist {
			authors[author] = struct{}{}
		}
	}

	truckFactor, events, err := Simulate(histograms, owners, coverage, opts.OrphanThreshold)
	if err != nil {
		return nil, err
	}

	report.TruckFactor = truckFactor
	report.RiskEvents = events
	report.FilesOwned = len(owners)
	report.Authors = len(authors)

	e.logger.WithFields(logrus.Fields{
		"files_analyzed": report.FilesAnalyzed,
		"files_owned":    report.FilesOwned,
		"authors":        report.Authors,
		"truck_factor":   report.TruckFactor,
	}).Debug("ownership risk computed")

	return report, nil
}

// attributeAll builds per-file histograms on a bounded pool. Each worker
// writes only its own file's slot, so the merged mapping is identical no
// matter how completions interleave.
func (e *Engine) attributeAll(ctx context.Context, files []string, workers int) (map[string]Histogram, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]Histogram, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			records, err := e.provider.LineAttribution(gctx, path)
			if err != nil {
				return fmt.Errorf("line attribution for %s: %w", path, err)
			}
			results[i] = Attribute(records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	histograms := make(map[string]Histogram, len(files))
	for i, path := range files {
		if len(results[i]) == 0 {
			continue
		}
		histograms[path] = results[i]
	}
	return histograms, nil
}
