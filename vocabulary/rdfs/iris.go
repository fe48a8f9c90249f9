package rdfs

// Base namespace IRIs for the standard vocabularies.
const (
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// RDFSNamespace is the RDF Schema namespace.
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	// OWLNamespace is the Web Ontology Language namespace.
	OWLNamespace = "http://www.w3.org/2002/07/owl#"

	// DCTermsNamespace is the Dublin Core terms namespace.
	DCTermsNamespace = "http://purl.org/dc/terms/"
)

// Type predicates identify class and property declarations.
const (
	// Type is the rdf:type predicate.
	Type = RDFNamespace + "type"

	// Property marks a resource as an RDF property declaration.
	Property = RDFNamespace + "Property"

	// Class marks a resource as an RDFS class declaration.
	Class = RDFSNamespace + "Class"

	// OWLClass marks a resource as an OWL class declaration.
	// Some schema editions use the OWL construct instead of rdfs:Class.
	OWLClass = OWLNamespace + "Class"

	// Literal is the rdfs:Literal class of literal values.
	Literal = RDFSNamespace + "Literal"
)

// Hierarchy and constraint predicates.
const (
	// SubClassOf declares a class/superclass edge.
	SubClassOf = RDFSNamespace + "subClassOf"

	// SubPropertyOf declares a property/superproperty edge.
	SubPropertyOf = RDFSNamespace + "subPropertyOf"

	// Domain declares the source class of a property.
	Domain = RDFSNamespace + "domain"

	// Range declares the target class of a property.
	Range = RDFSNamespace + "range"
)

// Annotation predicates carry human-readable documentation.
const (
	// Label is the rdfs:label predicate.
	Label = RDFSNamespace + "label"

	// Comment is the rdfs:comment predicate.
	Comment = RDFSNamespace + "comment"

	// Description is the Dublin Core description property.
	// Preferred over Comment when both are present.
	Description = DCTermsNamespace + "description"
)
