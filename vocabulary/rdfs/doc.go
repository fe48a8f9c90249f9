// Package rdfs provides IRI constants for the RDF, RDFS, OWL, and Dublin Core
// vocabularies used when deconstructing an ontology document.
//
// The ontology loader matches these predicates against decoded triples to
// recognize class declarations, property declarations, subclass-of edges,
// and domain/range edges.
package rdfs
