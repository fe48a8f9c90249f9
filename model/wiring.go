package model

import (
	"fmt"

	"github.com/c360studio/crmgraph/ontology"
)

// wire attaches a relationship descriptor to the domain type of every
// property. Descriptors are never copied onto descendants; inheritance
// propagation happens when a descendant resolves its effective set.
func wire(schema *ontology.Schema, types map[string]*Type, order []string, opts BuildOptions) error {
	for _, p := range schema.Properties() {
		owners, err := resolveDomain(p, types, order, opts)
		if err != nil {
			return err
		}
		if len(owners) == 0 {
			// Every candidate domain was filtered out of this build.
			continue
		}

		target, err := resolveRange(p, types, opts)
		if err != nil {
			return err
		}

		factory := opts.Relationships[p.SafeName]
		if factory == nil {
			factory = opts.Relationships[p.Ident]
		}

		for _, owner := range owners {
			var rel *Relationship
			if factory != nil {
				rel = factory(p, owner, target)
			} else {
				rel = defaultRelationship(p, owner, target)
			}
			if rel == nil {
				continue // override opted the property out
			}
			owner.relationships = append(owner.relationships, rel)

			// A declared inverse attaches a mirrored descriptor to the range
			// type, pointing back at the domain. Only meaningful when both
			// ends are constrained to a single type.
			if rel.Inverse != "" && target != nil && len(owners) == 1 {
				inverseIdent, _, _ := ontology.Normalize(rel.Inverse)
				target.relationships = append(target.relationships, &Relationship{
					Name:        rel.Inverse,
					Ident:       inverseIdent,
					Code:        p.Code + "i",
					Label:       rel.Label,
					Owner:       target,
					Target:      owner,
					Cardinality: rel.Cardinality,
					Inverse:     rel.Name,
				})
			}
		}
	}
	return nil
}

// defaultRelationship is the many-to-many connector used when no override
// factory is registered for the property.
func defaultRelationship(p *ontology.Property, owner, target *Type) *Relationship {
	return &Relationship{
		Name:        p.SafeName,
		Ident:       p.Ident,
		Code:        p.Code,
		Label:       p.Label,
		Owner:       owner,
		Target:      target,
		Cardinality: CardinalityManyToMany,
		Inverse:     p.Inverse,
	}
}

// resolveDomain finds the types a property's descriptor attaches to.
// An absent domain is unconstrained: the descriptor attaches to every root
// type, making it available everywhere through inheritance. A domain naming
// an unregistered class is a build failure unless AllowUnresolved downgrades
// it to the unconstrained policy.
func resolveDomain(p *ontology.Property, types map[string]*Type, order []string, opts BuildOptions) ([]*Type, error) {
	if p.Domain == "" {
		return roots(types, order), nil
	}
	if t, ok := types[p.Domain]; ok {
		return []*Type{t}, nil
	}
	if opts.AllowUnresolved {
		return roots(types, order), nil
	}
	if len(opts.Include) > 0 || len(opts.Exclude) > 0 {
		// The class exists in the ontology but was filtered out of this
		// build; the property simply does not apply.
		return nil, nil
	}
	return nil, fmt.Errorf("%w: property %s: domain class %s", ErrUnresolvedReference, p.SafeName, p.Domain)
}

// resolveRange finds the target type of a property. Nil means unconstrained.
func resolveRange(p *ontology.Property, types map[string]*Type, opts BuildOptions) (*Type, error) {
	if p.Range == "" {
		return nil, nil
	}
	if t, ok := types[p.Range]; ok {
		return t, nil
	}
	if opts.AllowUnresolved || len(opts.Include) > 0 || len(opts.Exclude) > 0 {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: property %s: range class %s", ErrUnresolvedReference, p.SafeName, p.Range)
}

// roots returns the types with no superclass, in build order.
func roots(types map[string]*Type, order []string) []*Type {
	var out []*Type
	for _, name := range order {
		if t := types[name]; len(t.ancestors) == 0 {
			out = append(out, t)
		}
	}
	return out
}
