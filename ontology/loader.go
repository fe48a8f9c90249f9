package ontology

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/knakk/rdf"

	"github.com/c360studio/crmgraph/vocabulary/rdfs"
)

// ErrSchemaUnreachable indicates the ontology source could not be fetched or
// parsed. Fatal to a build; no partial schema is ever returned.
var ErrSchemaUnreachable = errors.New("ontology schema unreachable")

// fetchTimeout bounds remote schema downloads when the caller's context
// carries no deadline.
const fetchTimeout = 30 * time.Second

// Load fetches and deconstructs an RDF/XML ontology document.
//
// Source may be an http(s) URL, a local file path, or the raw document
// itself. Any fetch or parse failure returns an error wrapping
// ErrSchemaUnreachable.
func Load(ctx context.Context, source string) (*Schema, error) {
	data, err := fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnreachable, err)
	}

	dec := rdf.NewTripleDecoder(bytes.NewReader(data), rdf.RDFXML)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("%w: decode RDF/XML: %v", ErrSchemaUnreachable, err)
	}

	return deconstruct(triples), nil
}

// fetch resolves the source locator to the raw document bytes.
func fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)

	default:
		if _, err := os.Stat(source); err == nil {
			return os.ReadFile(source)
		}
		// Not a URL or an existing file: treat as the raw document.
		if strings.Contains(source, "<") {
			return []byte(source), nil
		}
		return nil, fmt.Errorf("source %q is not a URL, file, or RDF document", source)
	}
}

// tripleIndex is a minimal queryable view over the decoded triples,
// indexed subject->predicate->objects and predicate->object->subjects.
type tripleIndex struct {
	spo map[string]map[string][]rdf.Object
	pos map[string]map[string][]string
}

func newTripleIndex(triples []rdf.Triple) *tripleIndex {
	idx := &tripleIndex{
		spo: make(map[string]map[string][]rdf.Object),
		pos: make(map[string]map[string][]string),
	}
	for _, t := range triples {
		s := t.Subj.String()
		p := t.Pred.String()

		preds, ok := idx.spo[s]
		if !ok {
			preds = make(map[string][]rdf.Object)
			idx.spo[s] = preds
		}
		preds[p] = append(preds[p], t.Obj)

		if iri, ok := t.Obj.(rdf.IRI); ok {
			objs, ok := idx.pos[p]
			if !ok {
				objs = make(map[string][]string)
				idx.pos[p] = objs
			}
			objs[iri.String()] = append(objs[iri.String()], s)
		}
	}
	return idx
}

// objects returns all objects of (s, p) triples.
func (idx *tripleIndex) objects(s, p string) []rdf.Object {
	return idx.spo[s][p]
}

// first returns the first object of (s, p), for predicates expected at most
// once per subject.
func (idx *tripleIndex) first(s, p string) (rdf.Object, bool) {
	objs := idx.spo[s][p]
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

// subjects returns all subjects with an (s, p, o) triple for the given
// predicate and object IRI.
func (idx *tripleIndex) subjects(p, o string) []string {
	return idx.pos[p][o]
}

// label finds the English label for a subject, falling back to the first
// label, falling back to the normalized local name.
func (idx *tripleIndex) label(s string) string {
	labels := idx.objects(s, rdfs.Label)
	for _, o := range labels {
		if lit, ok := o.(rdf.Literal); ok && lit.Lang() == "en" {
			return lit.String()
		}
	}
	if len(labels) > 0 {
		return labels[0].String()
	}
	ident, _, _ := Normalize(LocalName(s))
	return ident
}

// comment prefers the Dublin Core description over the RDFS comment.
func (idx *tripleIndex) comment(s string) string {
	if o, ok := idx.first(s, rdfs.Description); ok {
		return o.String()
	}
	if o, ok := idx.first(s, rdfs.Comment); ok {
		return o.String()
	}
	return ""
}

// deconstruct extracts class and property declarations from the triples.
func deconstruct(triples []rdf.Triple) *Schema {
	idx := newTripleIndex(triples)
	schema := NewSchema()

	// The synthetic Literal class anchors literal-valued property ranges.
	schema.AddClass(&Class{
		Ident:    LiteralClass,
		SafeName: LiteralClass,
		Code:     LiteralClass,
		Label:    LiteralClass,
		Fields:   []string{"value"},
	})

	// Classes first, so property domain/range idents resolve against them.
	classSubjects := append(
		idx.subjects(rdfs.Type, rdfs.Class),
		idx.subjects(rdfs.Type, rdfs.OWLClass)...,
	)
	known := make(map[string]bool, len(classSubjects))
	for _, s := range classSubjects {
		ident, _, _ := Normalize(LocalName(s))
		known[ident] = true
	}

	for _, s := range classSubjects {
		ident, safeName, code := Normalize(LocalName(s))

		var supers []string
		for _, o := range idx.objects(s, rdfs.SubClassOf) {
			iri, ok := o.(rdf.IRI)
			if !ok {
				continue // anonymous restriction, not a named superclass
			}
			superIdent, _, _ := Normalize(LocalName(iri.String()))
			if known[superIdent] {
				supers = append(supers, superIdent)
			}
		}

		schema.AddClass(&Class{
			URI:          s,
			Ident:        ident,
			SafeName:     safeName,
			Code:         code,
			Label:        idx.label(s),
			Comment:      idx.comment(s),
			SuperClasses: supers,
			Fields:       []string{"value"},
		})
	}

	// Properties, recording inverse declarations as hints on their base
	// property instead of materializing them.
	inverseOf := make(map[string]string)
	var forward []string
	for _, s := range idx.subjects(rdfs.Type, rdfs.Property) {
		_, safeName, code := Normalize(LocalName(s))
		if IsInverseCode(code) {
			inverseOf[BaseCode(code)] = safeName
			continue
		}
		forward = append(forward, s)
	}

	for _, s := range forward {
		ident, safeName, code := Normalize(LocalName(s))

		p := &Property{
			URI:      s,
			Ident:    ident,
			SafeName: safeName,
			Code:     code,
			Label:    idx.label(s),
			Comment:  idx.comment(s),
			Inverse:  inverseOf[code],
		}
		if o, ok := idx.first(s, rdfs.Domain); ok {
			p.Domain, _, _ = Normalize(LocalName(o.String()))
		}
		if o, ok := idx.first(s, rdfs.Range); ok {
			p.Range, _, _ = Normalize(LocalName(o.String()))
		}
		if o, ok := idx.first(s, rdfs.SubPropertyOf); ok {
			p.SubPropertyOf, _, _ = Normalize(LocalName(o.String()))
		}

		schema.AddProperty(p)
	}

	return schema
}
