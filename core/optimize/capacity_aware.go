// Package optimize - Capacity-aware plan optimization
package optimize

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"cloud-planner/core/capacity"
	"cloud-planner/core/model"
)

// ratedConstraint pairs a constraint with the capacity level observed for it.
// Built fresh per optimization call so capacity observations never leak into
// the shared, read-only constraint list.
type ratedConstraint struct {
	constraint    model.Constraint
	capacityLevel float64
}

// CapacityAwareOptimizer filters allocation candidates by live capacity and
// prefers better-supplied regions among equally-priced options.
type CapacityAwareOptimizer struct {
	*Optimizer
	aggregator *capacity.Aggregator
}

// NewCapacityAwareOptimizer creates an optimizer that consults the given
// aggregator for live availability.
func NewCapacityAwareOptimizer(constraints []model.Constraint, aggregator *capacity.Aggregator) *CapacityAwareOptimizer {
	return &CapacityAwareOptimizer{
		Optimizer:  NewOptimizer(constraints),
		aggregator: aggregator,
	}
}

// OptimizeWithCapacity builds a plan for the requested compute hours and
// storage GB using only constraints whose live capacity check reports
// available. Failed checks silently exclude the constraint. Among survivors
// the greedy order is free tier first, then highest observed capacity, then
// cheapest. Recognized requirement keys: compute_hours, storage_gb,
// preferred_providers.
func (o *CapacityAwareOptimizer) OptimizeWithCapacity(ctx context.Context, requirements model.Requirements) *model.Plan {
	computeHours := requirements.GetInt64("compute_hours", 0)
	storageGB := requirements.GetInt64("storage_gb", 0)
	preferredProviders := requirements.GetProviders("preferred_providers", model.CanonicalProviders())

	plan := model.NewPlan("capacity-optimized", "Plan optimized for both cost and capacity")

	available := o.rateByCapacity(ctx, preferredProviders)

	if computeHours > 0 {
		allocated, _ := allocate(sortByCapacity(selectRatedServices(available, computeServices)), computeHours)
		plan.Append(allocated...)
	}
	if storageGB > 0 {
		allocated, _ := allocate(sortByCapacity(selectRatedServices(available, storageServices)), storageGB)
		plan.Append(allocated...)
	}

	return plan
}

// rateByCapacity checks live capacity for every constraint belonging to a
// preferred provider and keeps the available ones, each paired with its
// observed capacity level. Wildcard regions are probed at the default region.
func (o *CapacityAwareOptimizer) rateByCapacity(ctx context.Context, preferredProviders []model.Provider) []ratedConstraint {
	preferred := make(map[model.Provider]bool, len(preferredProviders))
	for _, p := range preferredProviders {
		preferred[p] = true
	}

	rated := make([]ratedConstraint, 0, len(o.constraints))
	for _, c := range o.constraints {
		if !preferred[c.Provider] {
			continue
		}

		result, err := o.aggregator.CheckAvailability(ctx, c.Provider, c.ResolvedRegion(), c.ResourceType)
		if err != nil {
			o.log.Debug("excluding constraint, capacity check failed",
				zap.String("constraint", c.Key()), zap.Error(err))
			continue
		}
		if !result.Available {
			continue
		}

		rated = append(rated, ratedConstraint{constraint: c, capacityLevel: result.CapacityLevel})
	}
	return rated
}

func selectRatedServices(rated []ratedConstraint, services map[string]bool) []ratedConstraint {
	out := make([]ratedConstraint, 0, len(rated))
	for _, rc := range rated {
		if services[rc.constraint.Service] {
			out = append(out, rc)
		}
	}
	return out
}

// sortByCapacity orders rated constraints free tier first, then highest
// observed capacity, then cheapest, and strips the ratings for allocation.
func sortByCapacity(rated []ratedConstraint) []model.Constraint {
	sorted := make([]ratedConstraint, len(rated))
	copy(sorted, rated)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].constraint, sorted[j].constraint
		if ci.IsFreeTier() != cj.IsFreeTier() {
			return ci.IsFreeTier()
		}
		if sorted[i].capacityLevel != sorted[j].capacityLevel {
			return sorted[i].capacityLevel > sorted[j].capacityLevel
		}
		return ci.CostPerUnit.LessThan(cj.CostPerUnit)
	})

	constraints := make([]model.Constraint, len(sorted))
	for i, rc := range sorted {
		constraints[i] = rc.constraint
	}
	return constraints
}
