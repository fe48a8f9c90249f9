package model

import (
	"github.com/c360studio/crmgraph/ontology"
	"github.com/c360studio/crmgraph/vocabulary/crm"
)

// crmFixture builds a small slice of the CRM by hand: enough of the
// hierarchy to exercise multiple inheritance (E21 Person is both a physical
// thing and an actor) and inherited relationship availability.
//
//	E1 CRM Entity
//	├── E18 Physical Thing ──┐
//	├── E39 Actor ───────────┴── E21 Person
//	├── E28 Conceptual Object ── E55 Type
//	└── E53 Place
func crmFixture() *ontology.Schema {
	s := ontology.NewSchema()

	// The loader always registers the synthetic Literal root.
	s.AddClass(&ontology.Class{
		Ident:    ontology.LiteralClass,
		SafeName: ontology.LiteralClass,
		Code:     ontology.LiteralClass,
		Label:    ontology.LiteralClass,
		Fields:   []string{"value"},
	})

	classes := []struct {
		safeName string
		supers   []string
	}{
		{"E1_CRM_Entity", nil},
		{"E18_Physical_Thing", []string{"E1CRMEntity"}},
		{"E39_Actor", []string{"E1CRMEntity"}},
		{"E21_Person", []string{"E18PhysicalThing", "E39Actor"}},
		{"E28_Conceptual_Object", []string{"E1CRMEntity"}},
		{"E55_Type", []string{"E28ConceptualObject"}},
		{"E53_Place", []string{"E1CRMEntity"}},
	}
	for _, c := range classes {
		ident, safeName, code := ontology.Normalize(c.safeName)
		s.AddClass(&ontology.Class{
			URI:          crm.Namespace + c.safeName,
			Ident:        ident,
			SafeName:     safeName,
			Code:         code,
			Label:        safeName,
			SuperClasses: c.supers,
			Fields:       []string{"value"},
		})
	}

	properties := []struct {
		safeName    string
		domain, rng string
		inverse     string
	}{
		{"P2_has_type", "E1CRMEntity", "E55Type", ""},
		{"P74_has_current_or_former_residence", "E39Actor", "E53Place", "P74i_is_current_or_former_residence_of"},
	}
	for _, p := range properties {
		ident, safeName, code := ontology.Normalize(p.safeName)
		s.AddProperty(&ontology.Property{
			URI:      crm.Namespace + p.safeName,
			Ident:    ident,
			SafeName: safeName,
			Code:     code,
			Label:    safeName,
			Domain:   p.domain,
			Range:    p.rng,
			Inverse:  p.inverse,
		})
	}

	return s
}

// mustBuild builds the fixture, failing the test on error.
func mustBuild(t interface{ Fatalf(string, ...any) }, opts BuildOptions) *Registry {
	reg, err := Build(crmFixture(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return reg
}
