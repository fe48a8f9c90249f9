package model

// FieldKindString is the only scalar field kind the ontology declares.
// Override hooks may inject other kinds; their interpretation belongs to the
// storage layer's property model.
const FieldKindString = "string"

// Field describes one scalar field on a type.
type Field struct {
	// Name is the field name as persisted on the record.
	Name string

	// Kind is the scalar kind hint for the storage layer.
	Kind string
}

// Cardinality describes relationship multiplicity.
type Cardinality string

// CardinalityManyToMany is the default for ontology relationships.
const CardinalityManyToMany Cardinality = "many_to_many"

// Relationship is an outbound relationship descriptor. It is declared on the
// domain type only; descendants inherit it through effective-set resolution.
type Relationship struct {
	// Name is the safe property name and the key the descriptor is attached
	// under ("P74_has_current_or_former_residence").
	Name string

	// Ident is the normalized identifier ("P74HasCurrentOrFormerResidence").
	Ident string

	// Code is the CRM property code ("P74").
	Code string

	// Label is the human-readable property label.
	Label string

	// Owner is the type the descriptor is declared on.
	Owner *Type

	// Target is the range type. A connection's target must carry Target's
	// label or a descendant's. Nil means unconstrained.
	Target *Type

	// Cardinality is the declared multiplicity.
	Cardinality Cardinality

	// Inverse, when non-empty, names the mirrored descriptor attached to the
	// range type pointing back at the domain.
	Inverse string
}

// Accepts reports whether a record carrying the given label set is a valid
// target for this relationship. An unconstrained descriptor accepts anything.
func (r *Relationship) Accepts(labels []string) bool {
	if r.Target == nil {
		return true
	}
	for _, l := range labels {
		if l == r.Target.Name {
			return true
		}
	}
	return false
}

// Type is one runtime type synthesized from an ontology class.
// Immutable after build.
type Type struct {
	// Name is the normalized type identifier ("E21Person").
	Name string

	// SafeName preserves underscores ("E21_Person").
	SafeName string

	// Code is the CRM class code ("E21").
	Code string

	// Label is the human-readable class label.
	Label string

	// Comment is the class documentation.
	Comment string

	ancestors     []*Type
	fields        []Field
	relationships []*Relationship
}

// Ancestors returns the transitive superclasses, nearest first.
func (t *Type) Ancestors() []*Type {
	out := make([]*Type, len(t.ancestors))
	copy(out, t.ancestors)
	return out
}

// Depth is the length of the ancestor chain. Used as the most-derived
// tiebreak during label-based type inference.
func (t *Type) Depth() int {
	return len(t.ancestors)
}

// Is reports whether t is other or a descendant of other.
func (t *Type) Is(other *Type) bool {
	if t == other {
		return true
	}
	for _, a := range t.ancestors {
		if a == other {
			return true
		}
	}
	return false
}

// Labels returns the structural label set a record of this type carries at
// creation: the type's own name followed by every ancestor's.
func (t *Type) Labels() []string {
	labels := make([]string, 0, len(t.ancestors)+1)
	labels = append(labels, t.Name)
	for _, a := range t.ancestors {
		labels = append(labels, a.Name)
	}
	return labels
}

// OwnFields returns the fields declared directly on this type.
func (t *Type) OwnFields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Fields returns the effective field set: own declarations followed by every
// ancestor's, nearest first, deduplicated by name with the nearest
// declaration winning.
func (t *Type) Fields() []Field {
	var out []Field
	seen := make(map[string]bool)
	for _, f := range t.fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	for _, a := range t.ancestors {
		for _, f := range a.fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// HasField reports whether the effective field set contains name.
func (t *Type) HasField(name string) bool {
	for _, f := range t.Fields() {
		if f.Name == name {
			return true
		}
	}
	return false
}

// OwnRelationships returns the descriptors declared directly on this type.
func (t *Type) OwnRelationships() []*Relationship {
	out := make([]*Relationship, len(t.relationships))
	copy(out, t.relationships)
	return out
}

// Relationships returns the effective relationship set, resolved by walking
// the ancestor chain. A descriptor declared on a superclass appears here
// unmodified.
func (t *Type) Relationships() []*Relationship {
	var out []*Relationship
	seen := make(map[string]bool)
	for _, r := range t.relationships {
		if !seen[r.Name] {
			seen[r.Name] = true
			out = append(out, r)
		}
	}
	for _, a := range t.ancestors {
		for _, r := range a.relationships {
			if !seen[r.Name] {
				seen[r.Name] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// Relationship resolves a descriptor from the effective set by safe name or
// normalized identifier.
func (t *Type) Relationship(name string) (*Relationship, bool) {
	for _, r := range t.Relationships() {
		if r.Name == name || r.Ident == name {
			return r, true
		}
	}
	return nil, false
}
