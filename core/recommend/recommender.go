// Package recommend scores and ranks candidate resource configurations for
// an abstract requirement.
package recommend

import (
	"sort"

	"github.com/shopspring/decimal"

	"cloud-planner/core/constraint"
	"cloud-planner/core/model"
)

// Recommendation is one scored candidate configuration.
type Recommendation struct {
	Provider              model.Provider  `json:"provider"`
	Service               string          `json:"service"`
	ResourceType          string          `json:"resource_type"`
	Region                model.Region    `json:"region"`
	EstimatedMonthlyUsage int64           `json:"estimated_monthly_usage"`
	IsFreeTier            bool            `json:"is_free_tier"`
	FreeTierLimit         int64           `json:"free_tier_limit"`
	EstimatedCost         decimal.Decimal `json:"estimated_cost"`

	// ConfidenceScore ranks candidates, in [0, 1]
	ConfidenceScore float64 `json:"confidence_score"`
}

// serviceNames maps an abstract service type to the concrete service name per
// canonical provider. Providers outside the canonical three use the aws-column
// name.
var serviceNames = map[string]map[model.Provider]string{
	"compute":   {model.ProviderAWS: "ec2", model.ProviderGCP: "compute", model.ProviderAzure: "compute"},
	"storage":   {model.ProviderAWS: "s3", model.ProviderGCP: "storage", model.ProviderAzure: "storage"},
	"functions": {model.ProviderAWS: "lambda", model.ProviderGCP: "functions", model.ProviderAzure: "functions"},
}

// ServiceName resolves the provider-specific service name for an abstract
// service type. Unknown service types resolve to ("", false).
func ServiceName(serviceType string, provider model.Provider) (string, bool) {
	perProvider, ok := serviceNames[serviceType]
	if !ok {
		return "", false
	}
	if name, ok := perProvider[provider]; ok {
		return name, true
	}
	return perProvider[model.ProviderAWS], true
}

// Recommender ranks constraint-backed candidates for a requirement.
// Recommenders are read-only over their constraints and safe for concurrent
// use.
type Recommender struct {
	query constraint.Query
}

// NewRecommender creates a recommender over the given constraints.
func NewRecommender(constraints []model.Constraint) *Recommender {
	return &Recommender{query: constraint.NewQuery(constraints)}
}

// Recommend returns candidates for the requirement, ranked by confidence
// descending. Recognized requirement keys: service_type (default "compute"),
// estimated_monthly_hours (default 0), preferred_providers (default the
// canonical three), preferred_regions (default no filter), max_cost
// (optional ceiling).
func (r *Recommender) Recommend(requirements model.Requirements, existingUsage []model.Usage) []Recommendation {
	serviceType := requirements.GetString("service_type", "compute")
	estimatedHours := requirements.GetInt64("estimated_monthly_hours", 0)
	preferredProviders := requirements.GetProviders("preferred_providers", model.CanonicalProviders())
	preferredRegions := requirements.GetRegions("preferred_regions")
	maxCost, hasMaxCost := requirements.GetDecimal("max_cost")

	var candidates []model.Constraint
	for _, provider := range preferredProviders {
		service, ok := ServiceName(serviceType, provider)
		if !ok {
			continue
		}
		candidates = append(candidates, r.query.ByProvider(provider).ByService(service).All()...)
	}

	if len(preferredRegions) > 0 {
		candidates = filterRegions(candidates, preferredRegions)
	}

	recommendations := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		availableCapacity := c.LimitValue - matchingUsage(c, existingUsage)
		if availableCapacity < 0 {
			availableCapacity = 0
		}
		if estimatedHours > availableCapacity {
			continue
		}

		estimatedCost := decimal.Zero
		if !c.IsFreeTier() {
			estimatedCost = decimal.NewFromInt(estimatedHours).Mul(c.CostPerUnit)
		}
		if hasMaxCost && estimatedCost.GreaterThan(maxCost) {
			continue
		}

		recommendations = append(recommendations, Recommendation{
			Provider:              c.Provider,
			Service:               c.Service,
			ResourceType:          c.ResourceType,
			Region:                c.Region,
			EstimatedMonthlyUsage: estimatedHours,
			IsFreeTier:            c.IsFreeTier(),
			FreeTierLimit:         c.LimitValue,
			EstimatedCost:         estimatedCost,
			ConfidenceScore:       confidence(c, estimatedHours, preferredProviders),
		})
	}

	sortByConfidence(recommendations)
	return recommendations
}

// RecommendBestFit returns the top-ranked candidate, or nil when none fits.
func (r *Recommender) RecommendBestFit(requirements model.Requirements, existingUsage []model.Usage) *Recommendation {
	recommendations := r.Recommend(requirements, existingUsage)
	if len(recommendations) == 0 {
		return nil
	}
	return &recommendations[0]
}

// confidence averages three [0, 1] components: how loosely the requirement
// fits the quota, whether the provider was asked for, and whether the
// constraint is free tier.
func confidence(c model.Constraint, estimatedHours int64, preferredProviders []model.Provider) float64 {
	capacityFit := 0.0
	if c.LimitValue > 0 {
		capacityFit = 1.0 - float64(estimatedHours)/float64(c.LimitValue)
	}

	providerPreference := 0.5
	for _, p := range preferredProviders {
		if p == c.Provider {
			providerPreference = 1.0
			break
		}
	}

	costPreference := 0.7
	if c.IsFreeTier() {
		costPreference = 1.0
	}

	return (capacityFit + providerPreference + costPreference) / 3.0
}

func filterRegions(candidates []model.Constraint, regions []model.Region) []model.Constraint {
	filtered := make([]model.Constraint, 0, len(candidates))
	for _, c := range candidates {
		if c.Region.IsWildcard() {
			filtered = append(filtered, c)
			continue
		}
		for _, region := range regions {
			if c.Region == region {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered
}

// matchingUsage sums usage records drawing down the given constraint.
func matchingUsage(c model.Constraint, existingUsage []model.Usage) int64 {
	var used int64
	for _, usage := range existingUsage {
		if usage.Provider == c.Provider &&
			usage.Service == c.Service &&
			usage.ResourceType == c.ResourceType &&
			(c.Region.IsWildcard() || usage.Region == c.Region) {
			used += usage.CurrentUsage
		}
	}
	return used
}

func sortByConfidence(recommendations []Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ConfidenceScore > recommendations[j].ConfidenceScore
	})
}
