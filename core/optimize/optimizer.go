// Package optimize builds deployment plans by greedily allocating aggregate
// requirements across quota constraints.
package optimize

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloud-planner/core/constraint"
	"cloud-planner/core/cost"
	"cloud-planner/core/model"
	"cloud-planner/internal/errors"
	"cloud-planner/internal/logging"
)

// Service names that count toward each aggregate requirement.
var (
	computeServices = map[string]bool{"ec2": true, "compute": true}
	storageServices = map[string]bool{"s3": true, "storage": true}
)

// Optimizer greedily allocates aggregate requirements (compute hours,
// storage GB) across constraints to build plans. Allocation is greedy, not
// provably optimal: free-tier constraints are consumed first, then paid
// constraints cheapest-first.
type Optimizer struct {
	constraints []model.Constraint
	query       constraint.Query
	calculator  *cost.Calculator
	log         *zap.Logger
}

// NewOptimizer creates an optimizer over the given constraints.
func NewOptimizer(constraints []model.Constraint) *Optimizer {
	return &Optimizer{
		constraints: constraints,
		query:       constraint.NewQuery(constraints),
		calculator:  cost.NewCalculator(constraints),
		log:         logging.Named("optimize"),
	}
}

// OptimizeForCost discards the plan's original resource choices, re-derives
// its aggregate compute-hour and storage-GB totals, and re-allocates each
// aggregate independently across all matching constraints. The input plan is
// not modified.
func (o *Optimizer) OptimizeForCost(plan *model.Plan) *model.Plan {
	optimized := model.NewPlan(
		plan.Name+"-optimized",
		fmt.Sprintf("Cost-optimized version of %s", plan.Description),
	)

	var totalComputeHours, totalStorageGB int64
	for _, r := range plan.Resources {
		switch {
		case computeServices[r.Service]:
			totalComputeHours += r.TotalUsage()
		case storageServices[r.Service]:
			totalStorageGB += r.TotalUsage()
		}
	}

	if totalComputeHours > 0 {
		allocated, _ := allocate(sortByCost(o.serviceConstraints(computeServices)), totalComputeHours)
		optimized.Append(allocated...)
	}
	if totalStorageGB > 0 {
		allocated, _ := allocate(sortByCost(o.serviceConstraints(storageServices)), totalStorageGB)
		optimized.Append(allocated...)
	}

	o.log.Debug("optimized plan for cost",
		zap.String("plan", plan.Name),
		zap.Int64("compute_hours", totalComputeHours),
		zap.Int64("storage_gb", totalStorageGB),
		zap.Int("resources", len(optimized.Resources)))
	return optimized
}

// OptimizeWithinBudget builds a plan for the requested compute hours and
// storage GB without exceeding max_budget. Each greedy step is capped both by
// the constraint's limit and by what the remaining budget affords; free-tier
// steps are budget-unbounded. Recognized requirement keys: compute_hours,
// storage_gb, max_budget. Returns a BUDGET_INFEASIBLE error when the final
// computed cost exceeds the budget.
func (o *Optimizer) OptimizeWithinBudget(requirements model.Requirements) (*model.Plan, error) {
	maxBudget, _ := requirements.GetDecimal("max_budget")
	computeHours := requirements.GetInt64("compute_hours", 0)
	storageGB := requirements.GetInt64("storage_gb", 0)

	plan := model.NewPlan("budget-optimized",
		fmt.Sprintf("Plan optimized for budget $%s", maxBudget))

	remainingBudget := maxBudget

	if computeHours > 0 {
		resources, spent := allocateWithinBudget(sortByCost(o.serviceConstraints(computeServices)), computeHours, remainingBudget)
		plan.Append(resources...)
		remainingBudget = remainingBudget.Sub(spent)
	}

	if storageGB > 0 && remainingBudget.IsPositive() {
		resources, _ := allocateWithinBudget(sortByCost(o.serviceConstraints(storageServices)), storageGB, remainingBudget)
		plan.Append(resources...)
	}

	result := o.calculator.CalculatePlanCost(plan, nil)
	if result.TotalCost.GreaterThan(maxBudget) {
		return nil, errors.Newf(errors.TypeBudget,
			"cheapest allocation costs %s, exceeding budget %s", result.TotalCost, maxBudget)
	}
	return plan, nil
}

// OptimizeFreeTierOnly builds a plan from free-tier constraints alone.
// A compute shortfall aborts with a QUOTA_INFEASIBLE error; a storage
// shortfall yields the partial plan. The asymmetry is deliberate: compute is
// the anchor of a deployment while storage can usually be trimmed to fit.
func (o *Optimizer) OptimizeFreeTierOnly(requirements model.Requirements) (*model.Plan, error) {
	computeHours := requirements.GetInt64("compute_hours", 0)
	storageGB := requirements.GetInt64("storage_gb", 0)

	plan := model.NewPlan("free-tier-only", "Plan using only free tier resources")
	freeTier := o.query.FreeTierOnly().All()

	if computeHours > 0 {
		allocated, remaining := allocate(selectServices(freeTier, computeServices), computeHours)
		if remaining > 0 {
			return nil, errors.Newf(errors.TypeQuota,
				"free tier compute quota short by %d hours", remaining)
		}
		plan.Append(allocated...)
	}

	if storageGB > 0 {
		allocated, remaining := allocate(selectServices(freeTier, storageServices), storageGB)
		if remaining > 0 {
			o.log.Warn("free tier storage quota short, returning partial plan",
				zap.Int64("shortfall_gb", remaining))
		}
		plan.Append(allocated...)
	}

	return plan, nil
}

// serviceConstraints returns the constraints whose service is in the set,
// preserving list order.
func (o *Optimizer) serviceConstraints(services map[string]bool) []model.Constraint {
	return selectServices(o.constraints, services)
}

func selectServices(constraints []model.Constraint, services map[string]bool) []model.Constraint {
	out := make([]model.Constraint, 0, len(constraints))
	for _, c := range constraints {
		if services[c.Service] {
			out = append(out, c)
		}
	}
	return out
}

// sortByCost orders constraints free-tier first, then cheapest first.
// Returns a new slice; the input is untouched.
func sortByCost(constraints []model.Constraint) []model.Constraint {
	sorted := make([]model.Constraint, len(constraints))
	copy(sorted, constraints)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsFreeTier() != sorted[j].IsFreeTier() {
			return sorted[i].IsFreeTier()
		}
		return sorted[i].CostPerUnit.LessThan(sorted[j].CostPerUnit)
	})
	return sorted
}

// allocate greedily consumes the requirement against each constraint's limit
// in the given order, emitting one resource per constraint actually used.
// Returns the resources and the unallocated remainder.
func allocate(constraints []model.Constraint, requirement int64) ([]model.Resource, int64) {
	resources := []model.Resource{}
	remaining := requirement

	for _, c := range constraints {
		if remaining <= 0 {
			break
		}
		allocation := remaining
		if c.LimitValue < allocation {
			allocation = c.LimitValue
		}
		if allocation <= 0 {
			continue
		}
		resources = append(resources, newAllocation(c, allocation))
		remaining -= allocation
	}

	return resources, remaining
}

// allocateWithinBudget is allocate with each paid step additionally capped by
// what the remaining budget affords. Returns the resources and total spend.
func allocateWithinBudget(constraints []model.Constraint, requirement int64, budget decimal.Decimal) ([]model.Resource, decimal.Decimal) {
	resources := []model.Resource{}
	remaining := requirement
	remainingBudget := budget
	totalCost := decimal.Zero

	for _, c := range constraints {
		if remaining <= 0 {
			break
		}
		if !c.IsFreeTier() && !remainingBudget.IsPositive() {
			break
		}

		allocation := remaining
		if c.LimitValue < allocation {
			allocation = c.LimitValue
		}

		stepCost := decimal.Zero
		if !c.IsFreeTier() {
			affordable := remainingBudget.Div(c.CostPerUnit).IntPart()
			if affordable < allocation {
				allocation = affordable
			}
			stepCost = decimal.NewFromInt(allocation).Mul(c.CostPerUnit)
		}

		if allocation <= 0 {
			continue
		}

		resources = append(resources, newAllocation(c, allocation))
		remaining -= allocation
		remainingBudget = remainingBudget.Sub(stepCost)
		totalCost = totalCost.Add(stepCost)
	}

	return resources, totalCost
}

// newAllocation emits the resource covering one greedy step. The region comes
// from the constraint, with the wildcard resolved to the default region.
func newAllocation(c model.Constraint, allocation int64) model.Resource {
	return model.Resource{
		Provider:              c.Provider,
		Service:               c.Service,
		ResourceType:          c.ResourceType,
		Region:                c.ResolvedRegion(),
		Quantity:              1,
		EstimatedMonthlyUsage: allocation,
	}
}
