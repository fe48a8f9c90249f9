package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/c360studio/crmgraph/model"
)

// Neo4jStore persists records to Neo4j over bolt. Nodes are written with the
// full structural label set and a uuid `id` property; relationships use the
// descriptor's safe name as the relationship type.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	registry *model.Registry
}

// Neo4jConfig carries the connection settings for NewNeo4jStore.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig, registry *model.Registry) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Neo4jStore{driver: driver, database: cfg.Database, registry: registry}, nil
}

// Save persists the record with its full label set.
func (s *Neo4jStore) Save(ctx context.Context, rec *model.Record) (string, error) {
	id := rec.ID()
	if id == "" {
		id = uuid.NewString()
		rec.SetID(id)
	}

	labels, err := labelExpr(rec.Labels())
	if err != nil {
		return "", err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	query := fmt.Sprintf("MERGE (n%s {id: $id}) SET n += $props", labels)
	_, err = session.Run(ctx, query, map[string]interface{}{
		"id":    id,
		"props": rec.Fields(),
	})
	if err != nil {
		return "", fmt.Errorf("save record %s: %w", id, err)
	}
	return id, nil
}

// Get fetches a record by id, inflated as the named type.
func (s *Neo4jStore) Get(ctx context.Context, id, as string) (*model.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	query := `
		MATCH (n {id: $id})
		RETURN labels(n) AS labels, properties(n) AS props`
	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}

	if !result.Next(ctx) {
		return nil, fmt.Errorf("get record %s: %w", id, ErrNotFound)
	}
	record := result.Record()

	labels, props := decodeNode(record)
	return s.registry.Inflate(id, labels, props, as)
}

// Connect creates a relationship between two persisted records after
// validating the target against the descriptor's declared range.
func (s *Neo4jStore) Connect(ctx context.Context, from *model.Record, relName string, to *model.Record) error {
	rel, err := resolveRelationship(from, relName, to)
	if err != nil {
		return err
	}
	if err := checkIdent(rel.Name); err != nil {
		return err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a {id: $from})
		MATCH (b {id: $to})
		MERGE (a)-[:%s]->(b)`, rel.Name)
	_, err = session.Run(ctx, query, map[string]interface{}{
		"from": from.ID(),
		"to":   to.ID(),
	})
	if err != nil {
		return fmt.Errorf("connect %s -[%s]-> %s: %w", from.ID(), rel.Name, to.ID(), err)
	}
	return nil
}

// Related returns the records reachable over the named relationship.
func (s *Neo4jStore) Related(ctx context.Context, rec *model.Record, relName string) ([]*model.Record, error) {
	rel, ok := rec.Type().Relationship(relName)
	if !ok {
		return nil, fmt.Errorf("type %s has no relationship %q", rec.Type().Name, relName)
	}
	if err := checkIdent(rel.Name); err != nil {
		return nil, err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MATCH (a {id: $id})-[:%s]->(b)
		RETURN b.id AS id, labels(b) AS labels, properties(b) AS props`, rel.Name)
	result, err := session.Run(ctx, query, map[string]interface{}{"id": rec.ID()})
	if err != nil {
		return nil, fmt.Errorf("related %s over %s: %w", rec.ID(), rel.Name, err)
	}

	var out []*model.Record
	for result.Next(ctx) {
		record := result.Record()

		var id string
		if v, ok := record.Get("id"); ok {
			id, _ = v.(string)
		}
		labels, props := decodeNode(record)

		as, err := inflateAs(rel, labels, s.registry)
		if err != nil {
			return nil, err
		}
		related, err := s.registry.Inflate(id, labels, props, as)
		if err != nil {
			return nil, err
		}
		out = append(out, related)
	}
	return out, nil
}

// Delete removes a record and its relationships.
func (s *Neo4jStore) Delete(ctx context.Context, id string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	query := `MATCH (n {id: $id}) DETACH DELETE n`
	if _, err := session.Run(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// Close shuts down the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// labelExpr renders a structural label set as a Cypher label expression,
// rejecting names that cannot be safely interpolated.
func labelExpr(labels []string) (string, error) {
	var b strings.Builder
	for _, l := range labels {
		if err := checkIdent(l); err != nil {
			return "", err
		}
		b.WriteString(":")
		b.WriteString(l)
	}
	return b.String(), nil
}

// decodeNode extracts the labels and properties columns from a result row.
// The node's own `id` property is kept out of the field map.
func decodeNode(record *neo4j.Record) ([]string, map[string]any) {
	var labels []string
	if v, ok := record.Get("labels"); ok {
		if raw, ok := v.([]interface{}); ok {
			for _, l := range raw {
				if s, ok := l.(string); ok {
					labels = append(labels, s)
				}
			}
		}
	}

	props := make(map[string]any)
	if v, ok := record.Get("props"); ok {
		if raw, ok := v.(map[string]interface{}); ok {
			for k, val := range raw {
				if k == "id" {
					continue
				}
				props[k] = val
			}
		}
	}
	return labels, props
}
