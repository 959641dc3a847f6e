// Package graph exports change-coupling results to Neo4j so file
// relationships can be explored with Cypher alongside other tooling.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/thoughtful-solutions/metrics/internal/analysis"
)

// edgeBatchSize bounds UNWIND parameter lists so a large pair set cannot
// exceed the server's transaction memory.
const edgeBatchSize = 500

// Exporter writes coupling graphs to a Neo4j database.
type Exporter struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *logrus.Logger
}

// NewExporter connects to Neo4j and verifies connectivity before returning.
func NewExporter(ctx context.Context, uri, user, password, database string, logger *logrus.Logger) (*Exporter, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if uri == "" || user == "" || password == "" {
		return nil, fmt.Errorf("neo4j credentials missing: uri=%q user=%q", uri, user)
	}
	if database == "" {
		database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(user, password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 50
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j at %s: %w", uri, err)
	}

	logger.WithFields(logrus.Fields{
		"uri":      uri,
		"database": database,
	}).Debug("neo4j exporter connected")

	return &Exporter{
		driver:   driver,
		database: database,
		logger:   logger,
	}, nil
}

// Close closes the driver connection.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// ExportCoupling merges one File node per distinct path and one
// CO_CHANGES_WITH edge per pair, carrying the average coupling rate and the
// shared commit count. Re-export updates properties in place.
func (e *Exporter) ExportCoupling(ctx context.Context, repo string, pairs []analysis.CouplingPair) error {
	if len(pairs) == 0 {
		return nil
	}

	paths := distinctPaths(pairs)
	for i := 0; i < len(paths); i += edgeBatchSize {
		end := min(i+edgeBatchSize, len(paths))

		query := `
			UNWIND $paths AS path
			MERGE (f:File {repo: $repo, path: path})
		`
		_, err := neo4j.ExecuteQuery(ctx, e.driver, query,
			map[string]any{"repo": repo, "paths": paths[i:end]},
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(e.database))
		if err != nil {
			return fmt.Errorf("merge file nodes (batch %d-%d): %w", i, end, err)
		}
	}

	params := pairParams(pairs)
	for i := 0; i < len(params); i += edgeBatchSize {
		end := min(i+edgeBatchSize, len(params))

		query := `
			UNWIND $pairs AS pair
			MATCH (a:File {repo: $repo, path: pair.file1})
			MATCH (b:File {repo: $repo, path: pair.file2})
			MERGE (a)-[r:CO_CHANGES_WITH]->(b)
			SET r.rate = pair.rate, r.count = pair.count
		`
		_, err := neo4j.ExecuteQuery(ctx, e.driver, query,
			map[string]any{"repo": repo, "pairs": params[i:end]},
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(e.database))
		if err != nil {
			return fmt.Errorf("merge coupling edges (batch %d-%d): %w", i, end, err)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"repo":  repo,
		"files": len(paths),
		"edges": len(pairs),
	}).Info("exported coupling graph")

	return nil
}

// distinctPaths returns every file path appearing in pairs, first-seen order.
func distinctPaths(pairs []analysis.CouplingPair) []string {
	seen := make(map[string]bool, len(pairs)*2)
	var paths []string
	for _, p := range pairs {
		if !seen[p.File1] {
			seen[p.File1] = true
			paths = append(paths, p.File1)
		}
		if !seen[p.File2] {
			seen[p.File2] = true
			paths = append(paths, p.File2)
		}
	}
	return paths
}

// pairParams converts pairs into UNWIND-able parameter maps.
func pairParams(pairs []analysis.CouplingPair) []map[string]any {
	params := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		params[i] = map[string]any{
			"file1": p.File1,
			"file2": p.File2,
			"rate":  p.AvgCoupling,
			"count": p.CommitsTogether,
		}
	}
	return params
}
