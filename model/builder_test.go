package model

import (
	"errors"
	"testing"

	"github.com/c360studio/crmgraph/ontology"
)

func TestBuildAncestors(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	person, ok := reg.Lookup("E21Person")
	if !ok {
		t.Fatal("E21Person not registered")
	}

	// Nearest-ancestor-first: direct superclasses, then theirs.
	var names []string
	for _, a := range person.Ancestors() {
		names = append(names, a.Name)
	}
	want := []string{"E18PhysicalThing", "E39Actor", "E1CRMEntity"}
	if len(names) != len(want) {
		t.Fatalf("ancestors = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ancestors = %v, want %v", names, want)
		}
	}

	if person.Depth() != 3 {
		t.Errorf("depth = %d, want 3", person.Depth())
	}
}

func TestBuildRegistersBothNames(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	byIdent, ok1 := reg.Lookup("E21Person")
	bySafe, ok2 := reg.Lookup("E21_Person")
	if !ok1 || !ok2 {
		t.Fatal("expected lookup under both names")
	}
	if byIdent != bySafe {
		t.Error("both names should resolve to the same type")
	}
}

func TestFieldInheritanceSuperset(t *testing.T) {
	reg := mustBuild(t, BuildOptions{
		Fields: map[string]FieldFactory{
			"E39Actor": func() []Field {
				return []Field{{Name: "display_name", Kind: FieldKindString}}
			},
		},
	})

	person, _ := reg.Lookup("E21Person")
	actor, _ := reg.Lookup("E39Actor")

	// Effective field set of a subclass is a superset of its superclass's.
	for _, f := range actor.Fields() {
		if !person.HasField(f.Name) {
			t.Errorf("E21Person missing inherited field %q", f.Name)
		}
	}
	if !person.HasField("display_name") {
		t.Error("injected field not inherited")
	}
}

func TestFieldOverrideWins(t *testing.T) {
	reg := mustBuild(t, BuildOptions{
		Fields: map[string]FieldFactory{
			"E21_Person": func() []Field {
				return []Field{{Name: "value", Kind: "text"}}
			},
		},
	})

	person, _ := reg.Lookup("E21Person")
	for _, f := range person.Fields() {
		if f.Name == "value" && f.Kind != "text" {
			t.Errorf("override lost: value kind = %q", f.Kind)
		}
	}
}

func TestRelationshipInheritance(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	// P2 is declared on E1; every descendant must expose it.
	for _, name := range []string{"E1CRMEntity", "E39Actor", "E21Person", "E53Place"} {
		typ, _ := reg.Lookup(name)
		rel, ok := typ.Relationship("P2_has_type")
		if !ok {
			t.Errorf("%s does not expose P2_has_type", name)
			continue
		}
		if rel.Target == nil || rel.Target.Name != "E55Type" {
			t.Errorf("%s: P2 target wrong", name)
		}
		// The descriptor is declared once on E1 and shared, not copied.
		if rel.Owner.Name != "E1CRMEntity" {
			t.Errorf("%s: P2 owner = %s, want E1CRMEntity", name, rel.Owner.Name)
		}
	}

	// P74 is declared on E39; E53 Place must not expose it outbound.
	place, _ := reg.Lookup("E53Place")
	if _, ok := place.Relationship("P74_has_current_or_former_residence"); ok {
		t.Error("E53Place should not expose P74 outbound")
	}

	// Relationship superset property: descendants see all ancestor descriptors.
	actor, _ := reg.Lookup("E39Actor")
	person, _ := reg.Lookup("E21Person")
	for _, r := range actor.Relationships() {
		if _, ok := person.Relationship(r.Name); !ok {
			t.Errorf("E21Person missing inherited relationship %q", r.Name)
		}
	}
}

func TestInverseWiring(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	// The P74 inverse hint mirrors a descriptor onto E53 Place.
	place, _ := reg.Lookup("E53Place")
	inv, ok := place.Relationship("P74i_is_current_or_former_residence_of")
	if !ok {
		t.Fatal("inverse descriptor not attached to E53Place")
	}
	if inv.Target == nil || inv.Target.Name != "E39Actor" {
		t.Error("inverse target should be E39Actor")
	}
}

func TestRelationshipOverride(t *testing.T) {
	called := false
	reg := mustBuild(t, BuildOptions{
		Relationships: map[string]RelationshipFactory{
			"P2_has_type": func(p *ontology.Property, owner, target *Type) *Relationship {
				called = true
				rel := &Relationship{
					Name:        p.SafeName,
					Ident:       p.Ident,
					Code:        p.Code,
					Owner:       owner,
					Target:      target,
					Cardinality: Cardinality("one_to_many"),
				}
				return rel
			},
		},
	})

	if !called {
		t.Fatal("override factory never invoked")
	}
	entity, _ := reg.Lookup("E1CRMEntity")
	rel, _ := entity.Relationship("P2_has_type")
	if rel.Cardinality != Cardinality("one_to_many") {
		t.Errorf("cardinality = %q, want override", rel.Cardinality)
	}
}

func TestUnconstrainedDomainAttachesToRoots(t *testing.T) {
	schema := crmFixture()
	ident, safeName, code := ontology.Normalize("P999_free_floating")
	schema.AddProperty(&ontology.Property{
		Ident:    ident,
		SafeName: safeName,
		Code:     code,
	})

	reg, err := Build(schema, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Attached to the root, therefore visible everywhere.
	for _, name := range []string{"E1CRMEntity", "E21Person", "E53Place"} {
		typ, _ := reg.Lookup(name)
		rel, ok := typ.Relationship("P999_free_floating")
		if !ok {
			t.Errorf("%s does not expose the unconstrained property", name)
			continue
		}
		if rel.Target != nil {
			t.Errorf("%s: unconstrained property should accept any target", name)
		}
	}
}

func TestUnresolvedReference(t *testing.T) {
	schema := crmFixture()
	ident, safeName, code := ontology.Normalize("P998_points_nowhere")
	schema.AddProperty(&ontology.Property{
		Ident:    ident,
		SafeName: safeName,
		Code:     code,
		Domain:   "E39Actor",
		Range:    "E999Missing",
	})

	_, err := Build(schema, BuildOptions{})
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("err = %v, want ErrUnresolvedReference", err)
	}

	// AllowUnresolved downgrades to the unconstrained policy.
	reg, err := Build(schema, BuildOptions{AllowUnresolved: true})
	if err != nil {
		t.Fatalf("Build with AllowUnresolved: %v", err)
	}
	actor, _ := reg.Lookup("E39Actor")
	rel, ok := actor.Relationship("P998_points_nowhere")
	if !ok {
		t.Fatal("descriptor missing under AllowUnresolved")
	}
	if rel.Target != nil {
		t.Error("unresolved range should be unconstrained")
	}
}

func TestCyclicHierarchy(t *testing.T) {
	s := ontology.NewSchema()
	s.AddClass(&ontology.Class{Ident: "A", SafeName: "A", Code: "A", SuperClasses: []string{"B"}, Fields: []string{"value"}})
	s.AddClass(&ontology.Class{Ident: "B", SafeName: "B", Code: "B", SuperClasses: []string{"A"}, Fields: []string{"value"}})

	_, err := Build(s, BuildOptions{})
	if !errors.Is(err, ErrCyclicHierarchy) {
		t.Fatalf("err = %v, want ErrCyclicHierarchy", err)
	}
}

func TestBuildAtomicity(t *testing.T) {
	ResetGlobal()
	prior := mustBuild(t, BuildOptions{})
	Global().Replace(prior)
	before := Global().Len()

	schema := crmFixture()
	ident, safeName, code := ontology.Normalize("P998_points_nowhere")
	schema.AddProperty(&ontology.Property{
		Ident: ident, SafeName: safeName, Code: code,
		Domain: "E999Missing",
	})

	if _, err := Build(schema, BuildOptions{}); err == nil {
		t.Fatal("expected build failure")
	}

	// A failed build leaves the previous registry intact.
	if Global().Len() != before {
		t.Errorf("global registry mutated by failed build: %d != %d", Global().Len(), before)
	}
}

func TestIncludeExcludeFilters(t *testing.T) {
	reg := mustBuild(t, BuildOptions{Exclude: []string{"E53*"}})

	if _, ok := reg.Lookup("E53Place"); ok {
		t.Error("excluded class still registered")
	}
	// P74 ranges over the excluded class; the build must still succeed, with
	// the descriptor unconstrained.
	actor, _ := reg.Lookup("E39Actor")
	rel, ok := actor.Relationship("P74_has_current_or_former_residence")
	if !ok {
		t.Fatal("P74 missing after range exclusion")
	}
	if rel.Target != nil {
		t.Error("descriptor over an excluded range should be unconstrained")
	}

	reg = mustBuild(t, BuildOptions{Include: []string{"E1_CRM_Entity", "E39*", "E53*"}})
	if _, ok := reg.Lookup("E21Person"); ok {
		t.Error("E21Person should be filtered out")
	}
	if _, ok := reg.Lookup("E39Actor"); !ok {
		t.Error("included class missing")
	}
	// Literal always survives filtering.
	if _, ok := reg.Lookup(ontology.LiteralClass); !ok {
		t.Error("Literal should survive filtering")
	}
}

func TestTopoOrder(t *testing.T) {
	reg := mustBuild(t, BuildOptions{})

	seen := make(map[string]int)
	for i, typ := range reg.Types() {
		seen[typ.Name] = i
	}
	for _, typ := range reg.Types() {
		for _, a := range typ.Ancestors() {
			if seen[a.Name] > seen[typ.Name] {
				t.Errorf("%s built before its ancestor %s", typ.Name, a.Name)
			}
		}
	}
}
