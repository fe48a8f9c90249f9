package model

import (
	"errors"
	"fmt"
	"strings"
)

// Build-time sentinels. Any build failure leaves the prior registry intact.
var (
	// ErrCyclicHierarchy indicates the subclass-of relation is not a DAG.
	ErrCyclicHierarchy = errors.New("cyclic class hierarchy")

	// ErrBuild indicates a class could not be compiled into a runtime type.
	ErrBuild = errors.New("model build failed")

	// ErrUnresolvedReference indicates a property names a domain or range
	// class absent from the class set.
	ErrUnresolvedReference = errors.New("unresolved class reference")
)

// UnknownTypeError is returned by cast operations naming a type that is not
// registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

// NotASubclassError is returned by Downcast when the target is not a
// descendant of the record's current type.
type NotASubclassError struct {
	Target  string
	Current string
}

func (e *NotASubclassError) Error() string {
	return fmt.Sprintf("%s is not a subclass of %s", e.Target, e.Current)
}

// NotASuperclassError is returned by Upcast when the target is not an
// ancestor of the record's current type.
type NotASuperclassError struct {
	Target  string
	Current string
}

func (e *NotASuperclassError) Error() string {
	return fmt.Sprintf("%s is not a superclass of %s", e.Target, e.Current)
}

// AmbiguousTypeError is returned by Downcast when a record's labels admit
// more than one maximal type and the ancestor-chain-length tiebreak cannot
// decide between them.
type AmbiguousTypeError struct {
	Candidates []string
}

func (e *AmbiguousTypeError) Error() string {
	return fmt.Sprintf("ambiguous most-derived type: %s", strings.Join(e.Candidates, ", "))
}
