package db

import (
	"context"
	"fmt"

	"phishfeatures/pkg/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const neo4jBatchSize = 500

// Each URL becomes a node linked to the domain it was served from.
const mergeURLsCypher = `
UNWIND $rows AS row
MERGE (u:URL {url: row.url})
SET u += row.features, u.run_id = $run_id
WITH u, row
WHERE row.domain <> ''
MERGE (d:Domain {name: row.domain})
MERGE (u)-[:ON_DOMAIN]->(d)
`

// Neo4jSink writes rows into a Neo4j graph.
type Neo4jSink struct {
	driver   neo4j.DriverWithContext
	database string
}

// OpenNeo4j connects and verifies connectivity.
func OpenNeo4j(ctx context.Context, uri, user, password, database string) (*Neo4jSink, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j at %s is unreachable: %w", uri, err)
	}
	return &Neo4jSink{driver: driver, database: database}, nil
}

// Write merges rows in batches, one write transaction per batch.
func (n *Neo4jSink) Write(ctx context.Context, runID string, rows []config.FeatureVector) error {
	session := n.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: n.database,
	})
	defer session.Close(ctx)

	for start := 0; start < len(rows); start += neo4jBatchSize {
		end := min(start+neo4jBatchSize, len(rows))
		params := map[string]any{
			"run_id": runID,
			"rows":   graphRows(rows[start:end]),
		}
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, mergeURLsCypher, params)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("neo4j write of rows %d-%d failed: %w", start, end, err)
		}
	}
	return nil
}

// graphRows shapes rows into the $rows parameter of mergeURLsCypher.
func graphRows(rows []config.FeatureVector) []any {
	out := make([]any, 0, len(rows))
	for _, fv := range rows {
		props := featureProps(fv)
		delete(props, "url")
		out = append(out, map[string]any{
			"url":      fv.URL,
			"domain":   fv.Domain,
			"features": props,
		})
	}
	return out
}

func (n *Neo4jSink) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}
