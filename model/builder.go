package model

import (
	"context"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/crmgraph/ontology"
)

// FieldFactory produces extra scalar fields to inject on a class.
type FieldFactory func() []Field

// RelationshipFactory constructs a relationship descriptor for a property,
// overriding the default many-to-many connector. Target is nil when the
// property's range is unconstrained.
type RelationshipFactory func(p *ontology.Property, owner, target *Type) *Relationship

// BuildOptions carries the caller-supplied override hooks and build policy.
type BuildOptions struct {
	// Fields maps a class name (normalized or safe form) to a factory
	// producing additional scalar fields. Injected fields win over declared
	// fields on name collision.
	Fields map[string]FieldFactory

	// Relationships maps a property name (safe or normalized form) to a
	// factory overriding the default descriptor constructor.
	Relationships map[string]RelationshipFactory

	// AllowUnresolved downgrades a property whose domain or range names an
	// unregistered class from a build failure to the unconstrained policy:
	// the descriptor attaches to every root type (missing domain) or accepts
	// any target (missing range).
	AllowUnresolved bool

	// Include restricts the build to classes whose ident, safe name, or code
	// matches one of these patterns. Empty means all classes.
	Include []string

	// Exclude drops matching classes after Include filtering.
	Exclude []string
}

// BuildModels loads an ontology source and compiles it in one call.
func BuildModels(ctx context.Context, source string, opts BuildOptions) (*Registry, error) {
	schema, err := ontology.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return Build(schema, opts)
}

// Build compiles a schema into a registry of runtime types.
//
// Classes are processed in topological order so every superclass exists
// before its subclasses. The build is atomic: any failure returns an error
// with nothing registered, and an existing registry is never touched.
func Build(schema *ontology.Schema, opts BuildOptions) (*Registry, error) {
	start := time.Now()
	buildsTotal.Inc()

	reg, err := build(schema, opts)
	if err != nil {
		buildFailures.Inc()
		return nil, err
	}

	buildDuration.Observe(time.Since(start).Seconds())
	classesBuilt.Set(float64(reg.Len()))
	relationshipsWired.Set(float64(countRelationships(reg)))
	return reg, nil
}

func build(schema *ontology.Schema, opts BuildOptions) (*Registry, error) {
	classes := filterClasses(schema.Classes(), opts)

	ordered, err := topoSort(classes)
	if err != nil {
		return nil, err
	}

	types := make(map[string]*Type, 2*len(ordered))
	order := make([]string, 0, len(ordered))

	for _, c := range ordered {
		t, err := synthesize(c, types, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: class %s: %v", ErrBuild, c.Ident, err)
		}

		if _, dup := types[t.Name]; dup {
			return nil, fmt.Errorf("%w: class %s: name %s already registered", ErrBuild, c.Ident, t.Name)
		}
		types[t.Name] = t
		order = append(order, t.Name)

		// Register the original local name too, so lookup works either way.
		if t.SafeName != t.Name {
			if _, dup := types[t.SafeName]; dup {
				return nil, fmt.Errorf("%w: class %s: name %s already registered", ErrBuild, c.Ident, t.SafeName)
			}
			types[t.SafeName] = t
		}
	}

	if err := wire(schema, types, order, opts); err != nil {
		return nil, err
	}

	return newRegistry(types, order), nil
}

// filterClasses applies the Include/Exclude patterns. The synthetic Literal
// class always survives so literal-valued ranges keep resolving.
func filterClasses(classes []*ontology.Class, opts BuildOptions) []*ontology.Class {
	if len(opts.Include) == 0 && len(opts.Exclude) == 0 {
		return classes
	}

	kept := make(map[string]bool, len(classes))
	var out []*ontology.Class
	for _, c := range classes {
		if c.Ident != ontology.LiteralClass {
			if len(opts.Include) > 0 && !matchesAny(opts.Include, c) {
				continue
			}
			if matchesAny(opts.Exclude, c) {
				continue
			}
		}
		kept[c.Ident] = true
		out = append(out, c)
	}

	// Drop superclass edges pointing at filtered-out classes; the orphaned
	// subclass becomes a root of the filtered hierarchy.
	for i, c := range out {
		var supers []string
		for _, s := range c.SuperClasses {
			if kept[s] {
				supers = append(supers, s)
			}
		}
		if len(supers) != len(c.SuperClasses) {
			trimmed := *c
			trimmed.SuperClasses = supers
			out[i] = &trimmed
		}
	}
	return out
}

func matchesAny(patterns []string, c *ontology.Class) bool {
	for _, p := range patterns {
		for _, name := range []string{c.Ident, c.SafeName, c.Code} {
			if ok, err := doublestar.Match(p, name); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// topoSort orders classes superclasses-first (Kahn's algorithm, stable with
// respect to declaration order).
func topoSort(classes []*ontology.Class) ([]*ontology.Class, error) {
	byIdent := make(map[string]*ontology.Class, len(classes))
	for _, c := range classes {
		byIdent[c.Ident] = c
	}

	indegree := make(map[string]int, len(classes))
	dependents := make(map[string][]string, len(classes))
	for _, c := range classes {
		for _, s := range c.SuperClasses {
			if _, ok := byIdent[s]; !ok {
				continue
			}
			indegree[c.Ident]++
			dependents[s] = append(dependents[s], c.Ident)
		}
	}

	var queue []*ontology.Class
	for _, c := range classes {
		if indegree[c.Ident] == 0 {
			queue = append(queue, c)
		}
	}

	ordered := make([]*ontology.Class, 0, len(classes))
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		ordered = append(ordered, c)

		for _, dep := range dependents[c.Ident] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, byIdent[dep])
			}
		}
	}

	if len(ordered) != len(classes) {
		for _, c := range classes {
			if indegree[c.Ident] > 0 {
				return nil, fmt.Errorf("%w: involving class %s", ErrCyclicHierarchy, c.Ident)
			}
		}
	}
	return ordered, nil
}

// synthesize creates the runtime type for one class. Every superclass is
// already in the table by topological order.
func synthesize(c *ontology.Class, types map[string]*Type, opts BuildOptions) (*Type, error) {
	t := &Type{
		Name:     c.Ident,
		SafeName: c.SafeName,
		Code:     c.Code,
		Label:    c.Label,
		Comment:  c.Comment,
	}

	// Ancestors: direct superclasses first, then their ancestors,
	// deduplicated nearest-first.
	seen := make(map[*Type]bool)
	var direct []*Type
	for _, s := range c.SuperClasses {
		super, ok := types[s]
		if !ok {
			return nil, fmt.Errorf("superclass %s not built", s)
		}
		if !seen[super] {
			seen[super] = true
			direct = append(direct, super)
			t.ancestors = append(t.ancestors, super)
		}
	}
	for _, super := range direct {
		for _, a := range super.ancestors {
			if !seen[a] {
				seen[a] = true
				t.ancestors = append(t.ancestors, a)
			}
		}
	}

	// Declared fields, then injected overrides; overrides win on collision.
	for _, name := range c.Fields {
		t.fields = append(t.fields, Field{Name: name, Kind: FieldKindString})
	}
	factory := opts.Fields[c.Ident]
	if factory == nil {
		factory = opts.Fields[c.SafeName]
	}
	if factory != nil {
		for _, f := range factory() {
			if f.Name == "" {
				return nil, fmt.Errorf("injected field with empty name")
			}
			replaced := false
			for i := range t.fields {
				if t.fields[i].Name == f.Name {
					t.fields[i] = f
					replaced = true
					break
				}
			}
			if !replaced {
				t.fields = append(t.fields, f)
			}
		}
	}

	return t, nil
}

func countRelationships(reg *Registry) int {
	n := 0
	for _, t := range reg.Types() {
		n += len(t.OwnRelationships())
	}
	return n
}
