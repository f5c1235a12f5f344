// Package constraint provides read-only querying over constraint collections.
package constraint

import "cloud-planner/core/model"

// Query is a chainable, read-only filter over a constraint collection.
// Every filter returns a new Query over the filtered subset; the underlying
// collection is never mutated, so queries are safe to share and reuse.
type Query struct {
	constraints []model.Constraint
}

// NewQuery wraps a constraint collection.
func NewQuery(constraints []model.Constraint) Query {
	return Query{constraints: constraints}
}

func (q Query) filter(keep func(model.Constraint) bool) Query {
	filtered := make([]model.Constraint, 0, len(q.constraints))
	for _, c := range q.constraints {
		if keep(c) {
			filtered = append(filtered, c)
		}
	}
	return Query{constraints: filtered}
}

// ByProvider filters constraints by provider.
func (q Query) ByProvider(provider model.Provider) Query {
	return q.filter(func(c model.Constraint) bool { return c.Provider == provider })
}

// ByService filters constraints by service.
func (q Query) ByService(service string) Query {
	return q.filter(func(c model.Constraint) bool { return c.Service == service })
}

// ByResourceType filters constraints by resource type.
func (q Query) ByResourceType(resourceType string) Query {
	return q.filter(func(c model.Constraint) bool { return c.ResourceType == resourceType })
}

// ByRegion filters constraints by exact region.
func (q Query) ByRegion(region model.Region) Query {
	return q.filter(func(c model.Constraint) bool { return c.Region == region })
}

// MatchingRegion filters to constraints applying to the given region:
// exact matches and wildcard constraints both qualify.
func (q Query) MatchingRegion(region model.Region) Query {
	return q.filter(func(c model.Constraint) bool { return c.MatchesRegion(region) })
}

// FreeTierOnly filters to free-tier constraints.
func (q Query) FreeTierOnly() Query {
	return q.filter(model.Constraint.IsFreeTier)
}

// Len returns the number of constraints in the query result.
func (q Query) Len() int {
	return len(q.constraints)
}

// At returns the constraint at the given index.
func (q Query) At(i int) model.Constraint {
	return q.constraints[i]
}

// All returns a copy of the query result as a plain slice.
func (q Query) All() []model.Constraint {
	out := make([]model.Constraint, len(q.constraints))
	copy(out, q.constraints)
	return out
}

// Each calls fn for every constraint in order.
func (q Query) Each(fn func(model.Constraint)) {
	for _, c := range q.constraints {
		fn(c)
	}
}

// Equal compares the underlying collections element-wise.
func (q Query) Equal(other Query) bool {
	if len(q.constraints) != len(other.constraints) {
		return false
	}
	for i, c := range q.constraints {
		o := other.constraints[i]
		if c.Provider != o.Provider || c.Service != o.Service ||
			c.ResourceType != o.ResourceType || c.Region != o.Region ||
			c.LimitType != o.LimitType || c.LimitValue != o.LimitValue ||
			c.Period != o.Period || c.Currency != o.Currency ||
			!c.CostPerUnit.Equal(o.CostPerUnit) {
			return false
		}
	}
	return true
}
