package recommend

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

func newAggregator(checkers map[model.Provider]capacity.Checker) *capacity.Aggregator {
	return capacity.NewAggregator(checkers, capacity.NewCache(5*time.Minute))
}

func TestCapacityAwareDropsUnavailable(t *testing.T) {
	constraints := []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", "us-east-1",
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
		model.MustConstraint(model.ProviderGCP, "compute", "f1-micro", "us-central1",
			"free_tier_hours", 744, "monthly", "USD", decimal.Zero),
	}
	aggregator := newAggregator(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: false},
		}),
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 0.8},
		}),
	})

	r := NewCapacityAwareRecommender(constraints, aggregator)
	recs := r.Recommend(context.Background(), model.Requirements{
		"service_type":            "compute",
		"estimated_monthly_hours": 500,
	}, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, model.ProviderGCP, recs[0].Provider)
	assert.True(t, recs[0].CapacityAvailable)
	assert.Equal(t, 0.8, recs[0].CapacityLevel)
}

func TestCapacityAwareRescalesConfidence(t *testing.T) {
	constraints := []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", "us-east-1",
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
	}
	aggregator := newAggregator(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.5},
		}),
	})

	base := NewRecommender(constraints)
	aware := NewCapacityAwareRecommender(constraints, aggregator)

	requirements := model.Requirements{
		"service_type":            "compute",
		"estimated_monthly_hours": 500,
	}
	baseRecs := base.Recommend(requirements, nil)
	awareRecs := aware.Recommend(context.Background(), requirements, nil)

	require.Len(t, baseRecs, 1)
	require.Len(t, awareRecs, 1)
	assert.InDelta(t, baseRecs[0].ConfidenceScore*(0.5+0.5*0.5), awareRecs[0].ConfidenceScore, 1e-9)
}

func TestCapacityAwareTreatsCheckFailureAsUnavailable(t *testing.T) {
	constraints := []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", "us-east-1",
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
	}
	aggregator := newAggregator(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.FailingChecker{Provider: model.ProviderAWS, Reason: "rate limited"},
	})

	r := NewCapacityAwareRecommender(constraints, aggregator)
	recs := r.Recommend(context.Background(), model.Requirements{
		"service_type":            "compute",
		"estimated_monthly_hours": 500,
	}, nil)

	assert.Empty(t, recs, "a failed capacity check excludes the candidate")

	best := r.RecommendBestFit(context.Background(), model.Requirements{
		"service_type":            "compute",
		"estimated_monthly_hours": 500,
	}, nil)
	assert.Nil(t, best)
}

func TestCapacityAwareReSortsByAdjustedConfidence(t *testing.T) {
	// gcp has the tighter quota (lower base confidence) but far better
	// capacity, so it overtakes aws after rescaling.
	constraints := []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", "us-east-1",
			"free_tier_hours", 750, "monthly", "USD", decimal.Zero),
		model.MustConstraint(model.ProviderGCP, "compute", "f1-micro", "us-central1",
			"free_tier_hours", 744, "monthly", "USD", decimal.Zero),
	}
	aggregator := newAggregator(map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.1},
		}),
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 1.0},
		}),
	})

	r := NewCapacityAwareRecommender(constraints, aggregator)
	recs := r.Recommend(context.Background(), model.Requirements{
		"service_type":            "compute",
		"estimated_monthly_hours": 500,
	}, nil)

	require.Len(t, recs, 2)
	assert.Equal(t, model.ProviderGCP, recs[0].Provider)
	assert.Greater(t, recs[0].ConfidenceScore, recs[1].ConfidenceScore)
}
