// Package export serializes a compiled type registry back to RDF Schema.
//
// The output reflects the registry, not the source document: filtered-out
// classes are absent, orphaned subclasses appear as roots, and properties
// downgraded to unconstrained carry no rdfs:domain or rdfs:range.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/crmgraph/model"
	"github.com/c360studio/crmgraph/ontology"
	"github.com/c360studio/crmgraph/vocabulary/crm"
	"github.com/c360studio/crmgraph/vocabulary/rdfs"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// statement is one exported triple. Objects are either IRIs or plain string
// literals; the registry carries nothing else.
type statement struct {
	subject   string
	predicate string
	object    string
	objectIRI bool
}

// SchemaExporter renders a registry's classes and properties as RDF.
type SchemaExporter struct {
	registry *model.Registry
	prefixes map[string]string
}

// NewSchemaExporter creates an exporter over the given registry.
func NewSchemaExporter(registry *model.Registry) *SchemaExporter {
	return &SchemaExporter{
		registry: registry,
		prefixes: defaultPrefixes(),
	}
}

func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  rdfs.RDFNamespace,
		"rdfs": rdfs.RDFSNamespace,
		"owl":  rdfs.OWLNamespace,
		"dc":   rdfs.DCTermsNamespace,
		"crm":  crm.Namespace,
	}
}

// Export serializes the registry to the specified format.
func (e *SchemaExporter) Export(format Format) (string, error) {
	statements := e.collect()
	switch format {
	case FormatTurtle:
		return e.toTurtle(statements), nil
	case FormatNTriples:
		return toNTriples(statements), nil
	case FormatJSONLD:
		return e.toJSONLD(statements), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// TypeIRI returns the schema IRI a type or property is exported under.
func TypeIRI(safeName string) string {
	return crm.Namespace + safeName
}

// collect flattens the registry into statements, classes first, each
// property once on its declaring type.
func (e *SchemaExporter) collect() []statement {
	var out []statement

	for _, t := range e.registry.Types() {
		if t.Name == ontology.LiteralClass {
			// Synthetic; not part of the source schema.
			continue
		}
		s := TypeIRI(t.SafeName)
		out = append(out, statement{s, rdfs.Type, rdfs.Class, true})
		if t.Label != "" {
			out = append(out, statement{s, rdfs.Label, t.Label, false})
		}
		if t.Comment != "" {
			out = append(out, statement{s, rdfs.Comment, t.Comment, false})
		}
		for _, super := range directSupers(t) {
			out = append(out, statement{s, rdfs.SubClassOf, TypeIRI(super.SafeName), true})
		}
	}

	// An unconstrained-domain property is attached to every root; it exports
	// once, with no rdfs:domain. Group descriptors by property name first.
	byName := make(map[string][]*model.Relationship)
	var names []string
	for _, t := range e.registry.Types() {
		for _, r := range t.OwnRelationships() {
			if ontology.IsInverseCode(r.Code) {
				continue // mirrored descriptor, not a declared property
			}
			if _, ok := byName[r.Name]; !ok {
				names = append(names, r.Name)
			}
			byName[r.Name] = append(byName[r.Name], r)
		}
	}

	for _, name := range names {
		descriptors := byName[name]
		r := descriptors[0]
		s := TypeIRI(r.Name)
		out = append(out, statement{s, rdfs.Type, rdfs.Property, true})
		if r.Label != "" {
			out = append(out, statement{s, rdfs.Label, r.Label, false})
		}
		if len(descriptors) == 1 {
			out = append(out, statement{s, rdfs.Domain, TypeIRI(r.Owner.SafeName), true})
		}
		switch {
		case r.Target == nil:
		case r.Target.Name == ontology.LiteralClass:
			out = append(out, statement{s, rdfs.Range, rdfs.Literal, true})
		default:
			out = append(out, statement{s, rdfs.Range, TypeIRI(r.Target.SafeName), true})
		}
	}

	return out
}

// directSupers filters the ancestor chain down to the immediate
// superclasses: those that are not an ancestor of another ancestor.
func directSupers(t *model.Type) []*model.Type {
	ancestors := t.Ancestors()
	var out []*model.Type
	for _, a := range ancestors {
		inherited := false
		for _, other := range ancestors {
			if other != a && other.Is(a) {
				inherited = true
				break
			}
		}
		if !inherited {
			out = append(out, a)
		}
	}
	return out
}

// toTurtle groups statements by subject under prefix declarations.
func (e *SchemaExporter) toTurtle(statements []statement) string {
	var sb strings.Builder

	prefixes := make([]string, 0, len(e.prefixes))
	for p := range e.prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p, e.prefixes[p])
	}
	sb.WriteString("\n")

	for _, group := range groupBySubject(statements) {
		fmt.Fprintf(&sb, "<%s>\n", group[0].subject)
		for i, st := range group {
			terminator := " ;"
			if i == len(group)-1 {
				terminator = " ."
			}
			if st.predicate == rdfs.Type {
				fmt.Fprintf(&sb, "    a <%s>%s\n", st.object, terminator)
				continue
			}
			fmt.Fprintf(&sb, "    <%s> %s%s\n", st.predicate, formatObject(st), terminator)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toNTriples(statements []statement) string {
	var sb strings.Builder
	for _, st := range statements {
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n", st.subject, st.predicate, formatObject(st))
	}
	return sb.String()
}

func (e *SchemaExporter) toJSONLD(statements []statement) string {
	var sb strings.Builder

	sb.WriteString("{\n  \"@context\": {\n")
	prefixes := make([]string, 0, len(e.prefixes))
	for p := range e.prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for i, p := range prefixes {
		fmt.Fprintf(&sb, "    %q: %q", p, e.prefixes[p])
		if i < len(prefixes)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  },\n  \"@graph\": [\n")

	groups := groupBySubject(statements)
	for i, group := range groups {
		fmt.Fprintf(&sb, "    {\n      \"@id\": %q", group[0].subject)
		for _, st := range group {
			sb.WriteString(",\n")
			if st.predicate == rdfs.Type {
				fmt.Fprintf(&sb, "      \"@type\": %q", st.object)
				continue
			}
			if st.objectIRI {
				fmt.Fprintf(&sb, "      %q: {\"@id\": %q}", st.predicate, st.object)
				continue
			}
			fmt.Fprintf(&sb, "      %q: %q", st.predicate, st.object)
		}
		sb.WriteString("\n    }")
		if i < len(groups)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ]\n}\n")

	return sb.String()
}

// groupBySubject batches consecutive runs of statements sharing a subject.
// collect emits each subject contiguously, so no sorting happens here.
func groupBySubject(statements []statement) [][]statement {
	var groups [][]statement
	for _, st := range statements {
		if n := len(groups); n > 0 && groups[n-1][0].subject == st.subject {
			groups[n-1] = append(groups[n-1], st)
			continue
		}
		groups = append(groups, []statement{st})
	}
	return groups
}

func formatObject(st statement) string {
	if st.objectIRI {
		return fmt.Sprintf("<%s>", st.object)
	}
	return fmt.Sprintf("%q", escapeString(st.object))
}

// escapeString escapes the characters Turtle and N-Triples reserve inside
// quoted literals.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
