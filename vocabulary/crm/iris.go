package crm

// Namespace is the base IRI prefix for CIDOC CRM terms.
const Namespace = "http://www.cidoc-crm.org/cidoc-crm/"

// DefaultSchemaURL is the published RDF/XML edition of the CRM used when no
// schema source is configured.
const DefaultSchemaURL = "http://www.cidoc-crm.org/cidoc-crm/cidoc_crm_v6.2.1.rdfs"

// Well-known class IRIs referenced by tests.
const (
	// ClassCRMEntity is the root of the CRM class hierarchy (E1).
	ClassCRMEntity = Namespace + "E1_CRM_Entity"

	// ClassPerson is E21 Person.
	ClassPerson = Namespace + "E21_Person"

	// ClassActor is E39 Actor.
	ClassActor = Namespace + "E39_Actor"

	// ClassPlace is E53 Place.
	ClassPlace = Namespace + "E53_Place"
)

// PropHasCurrentOrFormerResidence is P74.
// Domain: E39 Actor, Range: E53 Place
const PropHasCurrentOrFormerResidence = Namespace + "P74_has_current_or_former_residence"
