package storage

import (
	"errors"
	"fmt"
)

// Common storage errors.
var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// ConstraintViolationError is returned when a relationship write names a
// target that does not carry the declared range type's label or a
// descendant's.
type ConstraintViolationError struct {
	// Relationship is the property name.
	Relationship string

	// Expected is the declared range type.
	Expected string

	// Got is the target record's type.
	Got string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("relationship %s expects a %s target, got %s", e.Relationship, e.Expected, e.Got)
}
