// Package model - Quota and usage records
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"cloud-planner/internal/errors"
)

// Constraint is a provider/service/resource_type/region-scoped quota-and-price
// rule. Constraints are loaded once by an external loader and treated as
// read-only by the planning engine.
type Constraint struct {
	// Provider is the cloud provider
	Provider Provider `json:"provider"`

	// Service is the service name (e.g., "ec2", "storage")
	Service string `json:"service"`

	// ResourceType is the resource type name (e.g., "t2.micro")
	ResourceType string `json:"resource_type"`

	// Region is an exact region or WildcardRegion
	Region Region `json:"region"`

	// LimitType describes the limit (e.g., "free_tier_hours")
	LimitType string `json:"limit_type"`

	// LimitValue is the quota amount per period
	LimitValue int64 `json:"limit_value"`

	// Period is the limit period (e.g., "monthly")
	Period string `json:"period"`

	// Currency is the currency for cost calculations
	Currency string `json:"currency"`

	// CostPerUnit is the unit price beyond the free quota
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// NewConstraint builds a validated Constraint. Malformed records (negative
// limit or price, missing identity fields) are rejected here so planning
// never has to re-check them.
func NewConstraint(provider Provider, service, resourceType string, region Region, limitType string, limitValue int64, period, currency string, costPerUnit decimal.Decimal) (Constraint, error) {
	if provider == "" {
		return Constraint{}, errors.Validation("constraint provider must not be empty")
	}
	if service == "" || resourceType == "" {
		return Constraint{}, errors.Validation("constraint service and resource_type must not be empty")
	}
	if region == "" {
		return Constraint{}, errors.Validation("constraint region must not be empty (use \"*\" for any region)")
	}
	if limitValue < 0 {
		return Constraint{}, errors.Validationf("constraint limit_value must be >= 0, got %d", limitValue)
	}
	if costPerUnit.IsNegative() {
		return Constraint{}, errors.Validationf("constraint cost_per_unit must be >= 0, got %s", costPerUnit)
	}

	return Constraint{
		Provider:     provider,
		Service:      service,
		ResourceType: resourceType,
		Region:       region,
		LimitType:    limitType,
		LimitValue:   limitValue,
		Period:       period,
		Currency:     currency,
		CostPerUnit:  costPerUnit,
	}, nil
}

// MustConstraint is NewConstraint that panics on invalid input.
// Intended for static catalogs and tests.
func MustConstraint(provider Provider, service, resourceType string, region Region, limitType string, limitValue int64, period, currency string, costPerUnit decimal.Decimal) Constraint {
	c, err := NewConstraint(provider, service, resourceType, region, limitType, limitValue, period, currency, costPerUnit)
	if err != nil {
		panic(err)
	}
	return c
}

// IsFreeTier reports whether usage under this constraint costs nothing
// up to LimitValue.
func (c Constraint) IsFreeTier() bool {
	return c.CostPerUnit.IsZero()
}

// MatchesRegion reports whether this constraint applies to resources in the
// given region (exact match or wildcard).
func (c Constraint) MatchesRegion(region Region) bool {
	return c.Region.IsWildcard() || c.Region == region
}

// ResolvedRegion returns the constraint's region, substituting DefaultRegion
// for the wildcard.
func (c Constraint) ResolvedRegion() Region {
	if c.Region.IsWildcard() {
		return DefaultRegion
	}
	return c.Region
}

// Key returns a deterministic identity string for grouping.
func (c Constraint) Key() string {
	return string(c.Provider) + "/" + c.Service + "/" + c.ResourceType + "/" + string(c.Region)
}

// Usage tracks already-consumed quota in the current period. Usage records
// are supplied per call and never persisted by the engine.
type Usage struct {
	// Provider is the cloud provider
	Provider Provider `json:"provider"`

	// Service is the service name
	Service string `json:"service"`

	// ResourceType is the resource type name
	ResourceType string `json:"resource_type"`

	// Region is the region of usage
	Region Region `json:"region"`

	// CurrentUsage is the consumed amount
	CurrentUsage int64 `json:"current_usage"`

	// PeriodStart is the start of the tracking period
	PeriodStart time.Time `json:"period_start"`

	// PeriodEnd is the end of the tracking period
	PeriodEnd time.Time `json:"period_end"`
}

// NewUsage builds a validated Usage record.
func NewUsage(provider Provider, service, resourceType string, region Region, currentUsage int64, periodStart, periodEnd time.Time) (Usage, error) {
	if provider == "" || service == "" || resourceType == "" {
		return Usage{}, errors.Validation("usage provider, service and resource_type must not be empty")
	}
	if currentUsage < 0 {
		return Usage{}, errors.Validationf("usage current_usage must be >= 0, got %d", currentUsage)
	}
	if !periodEnd.After(periodStart) {
		return Usage{}, errors.Validation("usage period_end must be after period_start")
	}

	return Usage{
		Provider:     provider,
		Service:      service,
		ResourceType: resourceType,
		Region:       region,
		CurrentUsage: currentUsage,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}, nil
}

// PercentageOfLimit returns this usage as a percentage of the constraint's
// limit. A zero limit reads as fully consumed.
func (u Usage) PercentageOfLimit(c Constraint) float64 {
	if c.LimitValue == 0 {
		return 100.0
	}
	return float64(u.CurrentUsage) / float64(c.LimitValue) * 100.0
}
