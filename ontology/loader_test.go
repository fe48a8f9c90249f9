package ontology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/crmgraph/vocabulary/crm"
)

// schemaDoc is a small CRM excerpt in plain RDF/XML.
const schemaDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#">

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/E1_CRM_Entity">
    <rdf:type rdf:resource="http://www.w3.org/2000/01/rdf-schema#Class"/>
    <rdfs:label xml:lang="en">CRM Entity</rdfs:label>
    <rdfs:label xml:lang="de">CRM Entit&#228;t</rdfs:label>
    <rdfs:comment>The root of the hierarchy.</rdfs:comment>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/E39_Actor">
    <rdf:type rdf:resource="http://www.w3.org/2000/01/rdf-schema#Class"/>
    <rdfs:label xml:lang="en">Actor</rdfs:label>
    <rdfs:subClassOf rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E1_CRM_Entity"/>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/E53_Place">
    <rdf:type rdf:resource="http://www.w3.org/2002/07/owl#Class"/>
    <rdfs:label xml:lang="en">Place</rdfs:label>
    <rdfs:subClassOf rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E1_CRM_Entity"/>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/E21_Person">
    <rdf:type rdf:resource="http://www.w3.org/2000/01/rdf-schema#Class"/>
    <rdfs:label xml:lang="en">Person</rdfs:label>
    <rdfs:subClassOf rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E39_Actor"/>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/P74_has_current_or_former_residence">
    <rdf:type rdf:resource="http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"/>
    <rdfs:label xml:lang="en">has current or former residence</rdfs:label>
    <rdfs:domain rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E39_Actor"/>
    <rdfs:range rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E53_Place"/>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/P74i_is_current_or_former_residence_of">
    <rdf:type rdf:resource="http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"/>
    <rdfs:domain rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E53_Place"/>
    <rdfs:range rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E39_Actor"/>
  </rdf:Description>

  <rdf:Description rdf:about="http://www.cidoc-crm.org/cidoc-crm/P3_has_note">
    <rdf:type rdf:resource="http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"/>
    <rdfs:label xml:lang="en">has note</rdfs:label>
    <rdfs:domain rdf:resource="http://www.cidoc-crm.org/cidoc-crm/E1_CRM_Entity"/>
    <rdfs:range rdf:resource="http://www.w3.org/2000/01/rdf-schema#Literal"/>
  </rdf:Description>

</rdf:RDF>`

func TestLoadFromRawDocument(t *testing.T) {
	schema, err := Load(context.Background(), schemaDoc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Four declared classes plus the synthetic Literal.
	if got := len(schema.Classes()); got != 5 {
		t.Fatalf("expected 5 classes, got %d", got)
	}

	person, ok := schema.Class("E21Person")
	if !ok {
		t.Fatal("E21Person not found")
	}
	if person.URI != crm.ClassPerson {
		t.Errorf("uri = %q, want %q", person.URI, crm.ClassPerson)
	}
	if person.Label != "Person" {
		t.Errorf("label = %q, want Person", person.Label)
	}
	if person.SafeName != "E21_Person" {
		t.Errorf("safe name = %q", person.SafeName)
	}
	if person.Code != "E21" {
		t.Errorf("code = %q", person.Code)
	}
	if len(person.SuperClasses) != 1 || person.SuperClasses[0] != "E39Actor" {
		t.Errorf("superclasses = %v, want [E39Actor]", person.SuperClasses)
	}
	if len(person.Fields) != 1 || person.Fields[0] != "value" {
		t.Errorf("fields = %v, want [value]", person.Fields)
	}

	// English label preferred over the German one.
	entity, _ := schema.Class("E1CRMEntity")
	if entity.URI != crm.ClassCRMEntity {
		t.Errorf("uri = %q, want %q", entity.URI, crm.ClassCRMEntity)
	}
	if entity.Label != "CRM Entity" {
		t.Errorf("label = %q, want CRM Entity", entity.Label)
	}
	if entity.Comment != "The root of the hierarchy." {
		t.Errorf("comment = %q", entity.Comment)
	}

	actor, _ := schema.Class("E39Actor")
	if actor.URI != crm.ClassActor {
		t.Errorf("uri = %q, want %q", actor.URI, crm.ClassActor)
	}

	// OWL class construct recognized too.
	place, ok := schema.Class("E53Place")
	if !ok {
		t.Fatal("E53Place (owl:Class) not found")
	}
	if place.URI != crm.ClassPlace {
		t.Errorf("uri = %q, want %q", place.URI, crm.ClassPlace)
	}
}

func TestLoadProperties(t *testing.T) {
	schema, err := Load(context.Background(), schemaDoc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// P74i is an inverse declaration: folded into P74's hint, not listed.
	if got := len(schema.Properties()); got != 2 {
		t.Fatalf("expected 2 properties, got %d", got)
	}

	p74, ok := schema.Property("P74HasCurrentOrFormerResidence")
	if !ok {
		t.Fatal("P74 not found")
	}
	if p74.URI != crm.PropHasCurrentOrFormerResidence {
		t.Errorf("uri = %q, want %q", p74.URI, crm.PropHasCurrentOrFormerResidence)
	}
	if p74.Domain != "E39Actor" {
		t.Errorf("domain = %q, want E39Actor", p74.Domain)
	}
	if p74.Range != "E53Place" {
		t.Errorf("range = %q, want E53Place", p74.Range)
	}
	if p74.Inverse != "P74i_is_current_or_former_residence_of" {
		t.Errorf("inverse hint = %q", p74.Inverse)
	}

	// Literal-valued ranges resolve against the synthetic Literal class.
	p3, ok := schema.Property("P3HasNote")
	if !ok {
		t.Fatal("P3 not found")
	}
	if p3.Range != LiteralClass {
		t.Errorf("range = %q, want %s", p3.Range, LiteralClass)
	}
	if _, ok := schema.Class(LiteralClass); !ok {
		t.Error("synthetic Literal class missing")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.rdfs.xml")
	if err := os.WriteFile(path, []byte(schemaDoc), 0644); err != nil {
		t.Fatal(err)
	}

	schema, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := schema.Class("E21Person"); !ok {
		t.Error("E21Person not found after file load")
	}
}

func TestLoadUnreachable(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing file", filepath.Join(os.TempDir(), "does-not-exist-crm.rdfs.xml")},
		{"malformed document", "<rdf:RDF this is not xml"},
		{"unreachable URL", "http://127.0.0.1:1/schema.rdfs.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrSchemaUnreachable) {
				t.Errorf("error %v does not wrap ErrSchemaUnreachable", err)
			}
		})
	}
}
