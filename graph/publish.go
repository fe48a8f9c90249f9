// Package graph publishes the compiled type catalog to a knowledge graph
// ingest stream, so downstream consumers can see which types and
// relationships the current build exposes.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/crmgraph/model"
)

// CatalogIngestSubject is the subject catalog entities are published on.
const CatalogIngestSubject = "graph.ingest.entity"

// Predicates used for catalog entity triples.
const (
	// PredicateTypeName is the normalized type name.
	PredicateTypeName = "model.type.name"

	// PredicateTypeCode is the CRM class code.
	PredicateTypeCode = "model.type.code"

	// PredicateTypeLabel is the human-readable class label.
	PredicateTypeLabel = "model.type.label"

	// PredicateTypeAncestor names one ancestor type; repeated nearest-first.
	PredicateTypeAncestor = "model.type.ancestor"

	// PredicateTypeRelationship names one declared relationship.
	PredicateTypeRelationship = "model.type.relationship"
)

// Triple is one statement about a catalog entity.
type Triple struct {
	Subject    string    `json:"subject"`
	Predicate  string    `json:"predicate"`
	Object     any       `json:"object"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// EntityIngestMessage is the message format for graph ingestion.
type EntityIngestMessage struct {
	ID        string    `json:"id"`
	Triples   []Triple  `json:"triples"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublishCatalog publishes one entity per registered type.
func PublishCatalog(ctx context.Context, nc *nats.Conn, registry *model.Registry) error {
	if nc == nil {
		return nil // Skip publishing if no NATS connection (graceful degradation)
	}

	now := time.Now()
	for _, t := range registry.Types() {
		if err := ctx.Err(); err != nil {
			return err
		}

		entityID := TypeEntityID(t.SafeName)
		triples := []Triple{
			triple(entityID, PredicateTypeName, t.Name, now),
			triple(entityID, PredicateTypeCode, t.Code, now),
			triple(entityID, PredicateTypeLabel, t.Label, now),
		}
		for _, a := range t.Ancestors() {
			triples = append(triples, triple(entityID, PredicateTypeAncestor, a.Name, now))
		}
		for _, r := range t.OwnRelationships() {
			triples = append(triples, triple(entityID, PredicateTypeRelationship, r.Name, now))
		}

		msg := EntityIngestMessage{
			ID:        entityID,
			Triples:   triples,
			UpdatedAt: now,
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal catalog entity %s: %w", entityID, err)
		}
		if err := nc.Publish(CatalogIngestSubject, data); err != nil {
			return fmt.Errorf("publish catalog entity %s: %w", entityID, err)
		}
	}
	return nc.FlushWithContext(ctx)
}

// TypeEntityID generates a consistent entity ID for a type.
// Format: crmgraph.local.model.type.<safe-name>
func TypeEntityID(safeName string) string {
	return fmt.Sprintf("crmgraph.local.model.type.%s", safeName)
}

func triple(subject, predicate string, object any, ts time.Time) Triple {
	return Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Source:     "crmgraph.build",
		Timestamp:  ts,
		Confidence: 1.0,
	}
}
