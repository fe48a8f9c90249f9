package ontology

// LiteralClass is the identifier of the synthetic class registered for
// literal-valued property ranges. The schema document never declares it;
// treating it as a root class lets literal-valued properties resolve the same
// way object properties do.
const LiteralClass = "Literal"

// Class describes one ontology class declaration.
type Class struct {
	// URI is the full class IRI.
	URI string

	// Ident is the normalized type identifier ("E21Person").
	Ident string

	// SafeName preserves underscores ("E21_Person").
	SafeName string

	// Code is the CRM class code ("E21").
	Code string

	// Label is the human-readable label, preferring the English one.
	Label string

	// Comment is the class documentation (dcterms description, falling back
	// to rdfs comment).
	Comment string

	// SuperClasses lists the idents of the direct superclasses.
	// The relation over the whole schema must be acyclic.
	SuperClasses []string

	// Fields lists the declared scalar field names. Every class carries at
	// least the "value" field.
	Fields []string
}

// Property describes one ontology property (relationship) declaration.
type Property struct {
	// URI is the full property IRI.
	URI string

	// Ident is the normalized identifier ("P74HasCurrentOrFormerResidence").
	Ident string

	// SafeName preserves underscores; relationship descriptors are keyed by
	// it ("P74_has_current_or_former_residence").
	SafeName string

	// Code is the CRM property code ("P74").
	Code string

	// Label is the human-readable label.
	Label string

	// Comment is the property documentation.
	Comment string

	// Domain is the ident of the class the property is declared on.
	// Empty means unconstrained.
	Domain string

	// Range is the ident of the class the property may point to.
	// Empty means unconstrained.
	Range string

	// Inverse, when non-empty, is the safe name of the declared inverse
	// property ("P74i_is_current_or_former_residence_of").
	Inverse string

	// SubPropertyOf is the ident of the declared superproperty, if any.
	SubPropertyOf string
}

// Schema is the deconstructed ontology: classes and properties in stable
// declaration order, addressable by normalized identifier.
type Schema struct {
	classes    map[string]*Class
	classOrder []string
	properties map[string]*Property
	propOrder  []string
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		classes:    make(map[string]*Class),
		properties: make(map[string]*Property),
	}
}

// AddClass registers a class, keyed by its Ident. Re-adding an existing
// ident replaces the entry without disturbing declaration order.
func (s *Schema) AddClass(c *Class) {
	if _, ok := s.classes[c.Ident]; !ok {
		s.classOrder = append(s.classOrder, c.Ident)
	}
	s.classes[c.Ident] = c
}

// AddProperty registers a property, keyed by its Ident.
func (s *Schema) AddProperty(p *Property) {
	if _, ok := s.properties[p.Ident]; !ok {
		s.propOrder = append(s.propOrder, p.Ident)
	}
	s.properties[p.Ident] = p
}

// Class returns the class with the given ident.
func (s *Schema) Class(ident string) (*Class, bool) {
	c, ok := s.classes[ident]
	return c, ok
}

// Property returns the property with the given ident.
func (s *Schema) Property(ident string) (*Property, bool) {
	p, ok := s.properties[ident]
	return p, ok
}

// Classes returns all classes in declaration order.
func (s *Schema) Classes() []*Class {
	out := make([]*Class, 0, len(s.classOrder))
	for _, ident := range s.classOrder {
		out = append(out, s.classes[ident])
	}
	return out
}

// Properties returns all properties in declaration order.
func (s *Schema) Properties() []*Property {
	out := make([]*Property, 0, len(s.propOrder))
	for _, ident := range s.propOrder {
		out = append(out, s.properties[ident])
	}
	return out
}
