// Package model compiles an ontology schema into runtime types and manages
// the process-wide type registry.
//
// One Type is synthesized per ontology class, processed superclasses-first so
// that every type's ancestor chain is complete when it is created. Scalar
// fields and relationship descriptors are declared once, on the type that
// declares them; a type's effective surface is resolved by walking its
// ancestor chain, so a relationship declared on E1_CRM_Entity is usable on
// E21_Person without redeclaration.
//
// A build is atomic: it either produces a complete registry or fails with
// nothing registered. Types are immutable after build, making concurrent
// reads of a built registry safe. Records fetched from storage are cast
// between types in the same inheritance chain with Downcast and Upcast;
// casting changes only which type's surface is presented, never the
// persisted structural labels.
package model
