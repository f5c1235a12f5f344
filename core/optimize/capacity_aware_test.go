package optimize

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloud-planner/core/capacity"
	"cloud-planner/core/model"
)

func capacityConstraints() []model.Constraint {
	return []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", model.WildcardRegion,
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
		model.MustConstraint(model.ProviderGCP, "compute", "f1-micro", "us-central1",
			"free_tier_hours", 744, "monthly", "USD", decimal.Zero),
		model.MustConstraint(model.ProviderAzure, "compute", "B1S", "eastus",
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
	}
}

func newCapacityOptimizer(checkers map[model.Provider]capacity.Checker) *CapacityAwareOptimizer {
	aggregator := capacity.NewAggregator(checkers, capacity.NewCache(5*time.Minute))
	return NewCapacityAwareOptimizer(capacityConstraints(), aggregator)
}

func TestOptimizeWithCapacityExcludesUnavailable(t *testing.T) {
	o := newCapacityOptimizer(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.5},
		}),
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 0.9},
		}),
		model.ProviderAzure: capacity.NewStaticChecker(model.ProviderAzure, []capacity.StaticEntry{
			{Region: "eastus", ResourceType: "B1S", Available: false},
		}),
	})

	plan := o.OptimizeWithCapacity(context.Background(), model.Requirements{"compute_hours": 2000})
	require.NotNil(t, plan)

	for _, r := range plan.Resources {
		assert.NotEqual(t, model.ProviderAzure, r.Provider,
			"a provider reporting unavailable must never appear in the plan")
	}

	// Both free tier: the better-supplied gcp region is consumed first.
	require.Len(t, plan.Resources, 2)
	assert.Equal(t, model.ProviderGCP, plan.Resources[0].Provider)
	assert.Equal(t, int64(744), plan.Resources[0].EstimatedMonthlyUsage)
	assert.Equal(t, model.ProviderAWS, plan.Resources[1].Provider)
	assert.Equal(t, int64(750), plan.Resources[1].EstimatedMonthlyUsage)
}

func TestOptimizeWithCapacityExcludesFailingProviders(t *testing.T) {
	o := newCapacityOptimizer(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.FailingChecker{Provider: model.ProviderAWS, Reason: "throttled"},
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 0.9},
		}),
	})

	plan := o.OptimizeWithCapacity(context.Background(), model.Requirements{"compute_hours": 500})
	require.NotNil(t, plan)
	require.Len(t, plan.Resources, 1)
	assert.Equal(t, model.ProviderGCP, plan.Resources[0].Provider)
}

func TestOptimizeWithCapacityHonorsPreferredProviders(t *testing.T) {
	o := newCapacityOptimizer(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 1.0},
		}),
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 1.0},
		}),
	})

	plan := o.OptimizeWithCapacity(context.Background(), model.Requirements{
		"compute_hours":       500,
		"preferred_providers": []string{"gcp"},
	})
	require.NotNil(t, plan)
	require.Len(t, plan.Resources, 1)
	assert.Equal(t, model.ProviderGCP, plan.Resources[0].Provider)
}

func TestOptimizeWithCapacityProbesWildcardAtDefaultRegion(t *testing.T) {
	// The aws constraint is wildcard-regioned; its probe must go to the
	// default region, where the checker reports availability.
	o := newCapacityOptimizer(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: model.DefaultRegion, ResourceType: "t2.micro", Available: true, CapacityLevel: 0.7},
		}),
	})

	plan := o.OptimizeWithCapacity(context.Background(), model.Requirements{
		"compute_hours":       100,
		"preferred_providers": []string{"aws"},
	})
	require.NotNil(t, plan)
	require.Len(t, plan.Resources, 1)
	assert.Equal(t, model.DefaultRegion, plan.Resources[0].Region)
}
