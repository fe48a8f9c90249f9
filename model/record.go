package model

import "fmt"

// Record is a typed view of a persisted graph record. The structural label
// set carries the name of every type the record was instantiated under plus
// all their ancestors; it is written once at creation and is never changed by
// casting. Casting only changes which type's field and relationship surface
// is presented.
type Record struct {
	registry *Registry
	typ      *Type
	id       string
	labels   []string
	fields   map[string]any
}

// NewRecord creates an unpersisted record of the named type. The structural
// label set is the type's full ancestor closure.
func (r *Registry) NewRecord(typeName string) (*Record, error) {
	t, ok := r.Lookup(typeName)
	if !ok {
		return nil, &UnknownTypeError{Name: typeName}
	}
	return &Record{
		registry: r,
		typ:      t,
		labels:   t.Labels(),
		fields:   make(map[string]any),
	}, nil
}

// Inflate reconstructs a record view from its persisted form: the storage id,
// the structural label set, the field values, and the type it was fetched as.
func (r *Registry) Inflate(id string, labels []string, fields map[string]any, as string) (*Record, error) {
	t, ok := r.Lookup(as)
	if !ok {
		return nil, &UnknownTypeError{Name: as}
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{
		registry: r,
		typ:      t,
		id:       id,
		labels:   labels,
		fields:   fields,
	}, nil
}

// ID returns the storage identifier, empty until saved.
func (rec *Record) ID() string { return rec.id }

// SetID records the storage identifier assigned on save.
func (rec *Record) SetID(id string) { rec.id = id }

// Type returns the current type of this view.
func (rec *Record) Type() *Type { return rec.typ }

// Labels returns the structural label set.
func (rec *Record) Labels() []string {
	out := make([]string, len(rec.labels))
	copy(out, rec.labels)
	return out
}

// Fields returns the stored field values.
func (rec *Record) Fields() map[string]any {
	out := make(map[string]any, len(rec.fields))
	for k, v := range rec.fields {
		out[k] = v
	}
	return out
}

// Get returns a field value.
func (rec *Record) Get(name string) (any, bool) {
	v, ok := rec.fields[name]
	return v, ok
}

// Set assigns a field value. The field must exist on the current type's
// effective field set.
func (rec *Record) Set(name string, value any) error {
	if !rec.typ.HasField(name) {
		return fmt.Errorf("type %s has no field %q", rec.typ.Name, name)
	}
	rec.fields[name] = value
	return nil
}

// Downcast re-instantiates the record as a more derived type.
//
// With an empty target the most derived type consistent with the structural
// label set is inferred: the maximal registered types among the labels,
// tie-broken by the longest ancestor chain. A remaining tie is an
// AmbiguousTypeError. An explicit target must be registered, a descendant of
// (or equal to) the current type, and present in the label set.
//
// The returned view shares the record's labels and field values; storage is
// not consulted and the registry is not mutated.
func (rec *Record) Downcast(target string) (*Record, error) {
	if target == "" {
		t, err := rec.mostDerived()
		if err != nil {
			return nil, err
		}
		return rec.as(t), nil
	}

	t, ok := rec.registry.Lookup(target)
	if !ok {
		return nil, &UnknownTypeError{Name: target}
	}
	if !t.Is(rec.typ) {
		return nil, &NotASubclassError{Target: t.Name, Current: rec.typ.Name}
	}
	if !rec.hasLabel(t.Name) {
		// Structurally a subclass, but this record was never instantiated
		// under it.
		return nil, &NotASubclassError{Target: t.Name, Current: rec.typ.Name}
	}
	return rec.as(t), nil
}

// Upcast re-instantiates the record as an ancestor type. The target must be
// registered and an ancestor of (or equal to) the current type.
func (rec *Record) Upcast(target string) (*Record, error) {
	t, ok := rec.registry.Lookup(target)
	if !ok {
		return nil, &UnknownTypeError{Name: target}
	}
	if !rec.typ.Is(t) {
		return nil, &NotASuperclassError{Target: t.Name, Current: rec.typ.Name}
	}
	return rec.as(t), nil
}

// mostDerived infers the most specific registered type among the record's
// labels.
func (rec *Record) mostDerived() (*Type, error) {
	var candidates []*Type
	seen := make(map[*Type]bool)
	for _, l := range rec.labels {
		t, ok := rec.registry.Lookup(l)
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		// No registered label; the current view is all we know.
		return rec.typ, nil
	}

	// Maximal candidates: those that are not an ancestor of another
	// candidate.
	var maximal []*Type
	for _, t := range candidates {
		isAncestor := false
		for _, other := range candidates {
			if other != t && other.Is(t) {
				isAncestor = true
				break
			}
		}
		if !isAncestor {
			maximal = append(maximal, t)
		}
	}
	if len(maximal) == 1 {
		return maximal[0], nil
	}

	// Prefer the longest ancestor chain.
	best := maximal[0]
	tied := false
	for _, t := range maximal[1:] {
		switch {
		case t.Depth() > best.Depth():
			best = t
			tied = false
		case t.Depth() == best.Depth():
			tied = true
		}
	}
	if tied {
		names := make([]string, 0, len(maximal))
		for _, t := range maximal {
			if t.Depth() == best.Depth() {
				names = append(names, t.Name)
			}
		}
		return nil, &AmbiguousTypeError{Candidates: names}
	}
	return best, nil
}

func (rec *Record) hasLabel(name string) bool {
	for _, l := range rec.labels {
		if l == name {
			return true
		}
	}
	return false
}

// as returns a new view of the same record under a different type.
func (rec *Record) as(t *Type) *Record {
	view := *rec
	view.typ = t
	return &view
}
