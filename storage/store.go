// Package storage persists typed records and their relationships to a graph
// store.
//
// Records are written with their full structural label set: a record created
// as E21Person carries the labels of E21Person and every ancestor type. The
// label set is what later re-typing (Downcast/Upcast) and range-constraint
// checks operate on. The model layer declares each relationship's range
// constraint; this layer enforces it at connect time.
package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/c360studio/crmgraph/model"
)

// Store is the persistence contract for typed records.
type Store interface {
	// Save persists a record with its structural label set and field values,
	// assigning an id when the record has none. Returns the record id.
	Save(ctx context.Context, rec *model.Record) (string, error)

	// Get fetches a record by id and inflates it as the named type. The
	// persisted label set is preserved on the returned record, so it can be
	// downcast back to its most derived type.
	Get(ctx context.Context, id, as string) (*model.Record, error)

	// Connect creates a relationship between two persisted records. The
	// relationship is resolved from the source record's effective set; a
	// target that does not carry the declared range label (or a descendant's)
	// fails with a ConstraintViolationError.
	Connect(ctx context.Context, from *model.Record, relName string, to *model.Record) error

	// Related returns the records reachable from rec over the named
	// relationship.
	Related(ctx context.Context, rec *model.Record, relName string) ([]*model.Record, error)

	// Delete removes a record and its relationships.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// identPattern restricts label and relationship names interpolated into
// queries. Names come from the registry's normalized identifiers, which
// always match.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// resolveRelationship finds the named relationship on the source record's
// current type and validates the target's label set against the declared
// range. Shared by every Store implementation.
func resolveRelationship(from *model.Record, relName string, to *model.Record) (*model.Relationship, error) {
	rel, ok := from.Type().Relationship(relName)
	if !ok {
		return nil, fmt.Errorf("type %s has no relationship %q", from.Type().Name, relName)
	}
	if !rel.Accepts(to.Labels()) {
		return nil, &ConstraintViolationError{
			Relationship: rel.Name,
			Expected:     rel.Target.Name,
			Got:          to.Type().Name,
		}
	}
	return rel, nil
}

// checkIdent rejects names that cannot be safely interpolated.
func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}
