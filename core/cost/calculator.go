// Package cost computes resource and plan costs against quota constraints
// and existing usage.
package cost

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cloud-planner/core/constraint"
	"cloud-planner/core/model"
)

// defaultOverageRate prices overage on free-tier constraints, which carry no
// unit price of their own. A fixed fallback is a documented simplification;
// a real deployment substitutes a pricing table.
var defaultOverageRate = decimal.RequireFromString("0.0116")

// ResourceCostResult is the outcome of costing one resource.
type ResourceCostResult struct {
	// Resource is the costed resource
	Resource model.Resource `json:"resource"`

	// TotalCost is the estimated monthly cost
	TotalCost decimal.Decimal `json:"total_cost"`

	// IsFreeTier reports whether the usage fits entirely in free quota
	IsFreeTier bool `json:"is_free_tier"`

	// Constraint is the matched constraint, nil when none matched
	Constraint *model.Constraint `json:"constraint,omitempty"`

	// UsagePercentage is total usage over the constraint limit, may exceed 100
	UsagePercentage float64 `json:"usage_percentage"`

	// FreeTierUsage is the portion covered by remaining free quota
	FreeTierUsage int64 `json:"free_tier_usage"`

	// OverageUsage is the portion beyond remaining free quota
	OverageUsage int64 `json:"overage_usage"`

	// PricingUnknown is set when no constraint matched: the zero cost then
	// means "no pricing data", not "free"
	PricingUnknown bool `json:"pricing_unknown,omitempty"`
}

// PlanCostResult is the outcome of costing a whole plan.
type PlanCostResult struct {
	Plan          *model.Plan          `json:"plan"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	ResourceCosts []ResourceCostResult `json:"resource_costs"`
}

// ValidationResult reports aggregate quota violations in a plan.
type ValidationResult struct {
	IsValid            bool            `json:"is_valid"`
	Violations         []string        `json:"violations"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
}

// Calculator computes costs for resources against a fixed constraint list.
// Calculators are read-only over their constraints and safe for concurrent
// use.
type Calculator struct {
	constraints []model.Constraint
	query       constraint.Query
}

// NewCalculator creates a calculator over the given constraints.
func NewCalculator(constraints []model.Constraint) *Calculator {
	return &Calculator{
		constraints: constraints,
		query:       constraint.NewQuery(constraints),
	}
}

// matchConstraint selects the constraint governing a resource. Exact-region
// matches take precedence over wildcard matches; within each group the first
// constraint in list order wins.
func (c *Calculator) matchConstraint(resource model.Resource) *model.Constraint {
	candidates := c.query.
		ByProvider(resource.Provider).
		ByService(resource.Service).
		ByResourceType(resource.ResourceType)

	var wildcard *model.Constraint
	for i := 0; i < candidates.Len(); i++ {
		match := candidates.At(i)
		if match.Region == resource.Region {
			return &match
		}
		if match.Region.IsWildcard() && wildcard == nil {
			wildcard = &match
		}
	}
	return wildcard
}

// usedQuota sums existing-usage records that draw down the same constraint
// as the resource.
func usedQuota(resource model.Resource, matched model.Constraint, existingUsage []model.Usage) int64 {
	var used int64
	for _, usage := range existingUsage {
		if usage.Provider == resource.Provider &&
			usage.Service == resource.Service &&
			usage.ResourceType == resource.ResourceType &&
			(matched.Region.IsWildcard() || usage.Region == resource.Region) {
			used += usage.CurrentUsage
		}
	}
	return used
}

// CalculateResourceCost computes the free-tier/overage split and cost for a
// single resource. existingUsage may be nil.
func (c *Calculator) CalculateResourceCost(resource model.Resource, existingUsage []model.Usage) ResourceCostResult {
	matched := c.matchConstraint(resource)
	if matched == nil {
		// No pricing data for this resource. The zero cost here is a known
		// gap, flagged via PricingUnknown rather than silently passed off
		// as free tier.
		return ResourceCostResult{
			Resource:       resource,
			TotalCost:      decimal.Zero,
			IsFreeTier:     false,
			PricingUnknown: true,
		}
	}

	used := usedQuota(resource, *matched, existingUsage)
	availableQuota := matched.LimitValue - used
	if availableQuota < 0 {
		availableQuota = 0
	}

	totalUsage := resource.TotalUsage()
	freeTierUsage := totalUsage
	if availableQuota < freeTierUsage {
		freeTierUsage = availableQuota
	}
	overageUsage := totalUsage - availableQuota
	if overageUsage < 0 {
		overageUsage = 0
	}

	var totalCost decimal.Decimal
	isFreeTier := false
	switch {
	case overageUsage == 0:
		totalCost = decimal.Zero
		isFreeTier = true
	case matched.IsFreeTier():
		totalCost = decimal.NewFromInt(overageUsage).Mul(defaultOverageRate)
	default:
		totalCost = decimal.NewFromInt(overageUsage).Mul(matched.CostPerUnit)
	}

	usagePercentage := 100.0
	if matched.LimitValue > 0 {
		usagePercentage = float64(totalUsage) / float64(matched.LimitValue) * 100.0
	}

	return ResourceCostResult{
		Resource:        resource,
		TotalCost:       totalCost,
		IsFreeTier:      isFreeTier,
		Constraint:      matched,
		UsagePercentage: usagePercentage,
		FreeTierUsage:   freeTierUsage,
		OverageUsage:    overageUsage,
	}
}

// CalculatePlanCost sums per-resource results for a whole plan.
func (c *Calculator) CalculatePlanCost(plan *model.Plan, existingUsage []model.Usage) PlanCostResult {
	resourceCosts := make([]ResourceCostResult, 0, len(plan.Resources))
	totalCost := decimal.Zero

	for _, resource := range plan.Resources {
		result := c.CalculateResourceCost(resource, existingUsage)
		resourceCosts = append(resourceCosts, result)
		totalCost = totalCost.Add(result.TotalCost)
	}

	return PlanCostResult{
		Plan:          plan,
		TotalCost:     totalCost,
		ResourceCosts: resourceCosts,
	}
}

// ValidatePlanConstraints groups the plan's resources by matched constraint
// and reports a violation for every constraint whose aggregate usage exceeds
// its limit. Aggregation is independent of the per-resource free/overage
// split.
func (c *Calculator) ValidatePlanConstraints(plan *model.Plan) ValidationResult {
	type bucket struct {
		constraint model.Constraint
		totalUsage int64
	}

	buckets := make(map[string]*bucket)
	var order []string
	totalCost := decimal.Zero

	for _, resource := range plan.Resources {
		result := c.CalculateResourceCost(resource, nil)
		totalCost = totalCost.Add(result.TotalCost)

		if result.Constraint == nil {
			continue
		}
		key := result.Constraint.Key()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{constraint: *result.Constraint}
			buckets[key] = b
			order = append(order, key)
		}
		b.totalUsage += resource.TotalUsage()
	}

	var violations []string
	for _, key := range order {
		b := buckets[key]
		if b.totalUsage > b.constraint.LimitValue {
			overage := b.totalUsage - b.constraint.LimitValue
			violations = append(violations, fmt.Sprintf(
				"Constraint violation: %s %s %s exceeds limit by %d %s",
				b.constraint.Provider, b.constraint.Service, b.constraint.ResourceType,
				overage, strings.ReplaceAll(b.constraint.LimitType, "_", " ")))
		}
	}

	return ValidationResult{
		IsValid:            len(violations) == 0,
		Violations:         violations,
		TotalEstimatedCost: totalCost,
	}
}
