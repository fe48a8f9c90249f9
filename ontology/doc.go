// Package ontology loads an RDF/XML ontology document and deconstructs it
// into a Schema: the class declarations, subclass-of edges, property
// declarations, and domain/range edges that the model builder compiles into
// runtime types.
//
// The loader treats the RDF parser as a black box that yields triples; the
// triples are held in a small queryable index for the duration of one load.
// Callers are expected to load once per process and rebuild from the same
// Schema if needed.
package ontology
