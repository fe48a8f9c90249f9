package ontology

import "testing"

func TestLocalName(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"http://www.cidoc-crm.org/cidoc-crm/E21_Person", "E21_Person"},
		{"http://www.w3.org/2000/01/rdf-schema#Literal", "Literal"},
		{"E55_Type", "E55_Type"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := LocalName(tt.uri); got != tt.expected {
				t.Errorf("LocalName(%q) = %q, want %q", tt.uri, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		local    string
		ident    string
		safeName string
		code     string
	}{
		{"E21_Person", "E21Person", "E21_Person", "E21"},
		{"E1_CRM_Entity", "E1CRMEntity", "E1_CRM_Entity", "E1"},
		{
			"P74_has_current_or_former_residence",
			"P74HasCurrentOrFormerResidence",
			"P74_has_current_or_former_residence",
			"P74",
		},
		{"E18_Physical_Thing", "E18PhysicalThing", "E18_Physical_Thing", "E18"},
		{"has-part", "HasPart", "has_part", "has"},
		{"Literal", "Literal", "Literal", "Literal"},
	}

	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			ident, safeName, code := Normalize(tt.local)
			if ident != tt.ident {
				t.Errorf("ident = %q, want %q", ident, tt.ident)
			}
			if safeName != tt.safeName {
				t.Errorf("safeName = %q, want %q", safeName, tt.safeName)
			}
			if code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestInverseCodes(t *testing.T) {
	if !IsInverseCode("P74i") {
		t.Error("P74i should be an inverse code")
	}
	if IsInverseCode("P74") {
		t.Error("P74 is not an inverse code")
	}
	// A bare "i" is a one-letter code, not an inverse marker.
	if IsInverseCode("i") {
		t.Error("bare i is not an inverse code")
	}
	if got := BaseCode("P74i"); got != "P74" {
		t.Errorf("BaseCode(P74i) = %q, want P74", got)
	}
	if got := BaseCode("P74"); got != "P74" {
		t.Errorf("BaseCode(P74) = %q, want P74", got)
	}
}
