package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/c360studio/crmgraph/model"
)

// MemStore is a map-backed Store. It enforces the same label-based range
// constraints as the Neo4j store and is used by tests and the CLI demo path.
type MemStore struct {
	registry *model.Registry

	mu    sync.RWMutex
	nodes map[string]*memNode
}

type memNode struct {
	labels []string
	fields map[string]any
	// edges maps relationship name to target node ids.
	edges map[string][]string
}

// NewMemStore creates an in-memory store resolving types against registry.
func NewMemStore(registry *model.Registry) *MemStore {
	return &MemStore{
		registry: registry,
		nodes:    make(map[string]*memNode),
	}
}

// Save persists the record, assigning a uuid when it has none.
func (s *MemStore) Save(_ context.Context, rec *model.Record) (string, error) {
	id := rec.ID()
	if id == "" {
		id = uuid.NewString()
		rec.SetID(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		node = &memNode{edges: make(map[string][]string)}
		s.nodes[id] = node
	}
	node.labels = rec.Labels()
	node.fields = rec.Fields()
	return id, nil
}

// Get fetches a record by id, inflated as the named type.
func (s *MemStore) Get(_ context.Context, id, as string) (*model.Record, error) {
	s.mu.RLock()
	node, ok := s.nodes[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.registry.Inflate(id, node.labels, node.fields, as)
}

// Connect links two persisted records, enforcing the declared range
// constraint.
func (s *MemStore) Connect(_ context.Context, from *model.Record, relName string, to *model.Record) error {
	rel, err := resolveRelationship(from, relName, to)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.nodes[from.ID()]
	if !ok {
		return fmt.Errorf("connect %s: source: %w", rel.Name, ErrNotFound)
	}
	if _, ok := s.nodes[to.ID()]; !ok {
		return fmt.Errorf("connect %s: target: %w", rel.Name, ErrNotFound)
	}

	for _, existing := range src.edges[rel.Name] {
		if existing == to.ID() {
			return nil // already connected
		}
	}
	src.edges[rel.Name] = append(src.edges[rel.Name], to.ID())
	return nil
}

// Related returns the records reachable over the named relationship, each
// inflated as the relationship's declared range type (or its own first
// registered label when the range is unconstrained).
func (s *MemStore) Related(_ context.Context, rec *model.Record, relName string) ([]*model.Record, error) {
	rel, ok := rec.Type().Relationship(relName)
	if !ok {
		return nil, fmt.Errorf("type %s has no relationship %q", rec.Type().Name, relName)
	}

	s.mu.RLock()
	node, found := s.nodes[rec.ID()]
	if !found {
		s.mu.RUnlock()
		return nil, fmt.Errorf("related %s: %w", rec.ID(), ErrNotFound)
	}
	ids := append([]string(nil), node.edges[rel.Name]...)
	s.mu.RUnlock()

	out := make([]*model.Record, 0, len(ids))
	for _, id := range ids {
		s.mu.RLock()
		target := s.nodes[id]
		s.mu.RUnlock()
		if target == nil {
			continue
		}
		as, err := inflateAs(rel, target.labels, s.registry)
		if err != nil {
			return nil, err
		}
		related, err := s.registry.Inflate(id, target.labels, target.fields, as)
		if err != nil {
			return nil, err
		}
		out = append(out, related)
	}
	return out, nil
}

// Delete removes a record and any edges pointing at it.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.nodes, id)
	for _, node := range s.nodes {
		for rel, targets := range node.edges {
			kept := targets[:0]
			for _, t := range targets {
				if t != id {
					kept = append(kept, t)
				}
			}
			node.edges[rel] = kept
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close(context.Context) error { return nil }

// inflateAs picks the type a related record is fetched back as: the declared
// range when constrained, otherwise the target's first registered label.
func inflateAs(rel *model.Relationship, labels []string, registry *model.Registry) (string, error) {
	if rel.Target != nil {
		return rel.Target.Name, nil
	}
	for _, l := range labels {
		if _, ok := registry.Lookup(l); ok {
			return l, nil
		}
	}
	return "", fmt.Errorf("relationship %s: target carries no registered label", rel.Name)
}
