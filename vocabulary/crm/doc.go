// Package crm provides IRI constants for the CIDOC Conceptual Reference
// Model, the default ontology compiled by crmgraph.
//
// Only the handful of classes and properties referenced by code and tests are
// named here; the full hierarchy is always read from the RDF/XML schema
// document at build time, never from these constants.
package crm
