package capacity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloud-planner/core/model"
	"cloud-planner/internal/errors"
)

// countingChecker wraps a Checker and counts probe invocations.
type countingChecker struct {
	Checker

	mu    sync.Mutex
	calls int
}

func (c *countingChecker) CheckAvailability(ctx context.Context, region model.Region, resourceType string) (model.CapacityResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Checker.CheckAvailability(ctx, region, resourceType)
}

func (c *countingChecker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func awsChecker() *countingChecker {
	return &countingChecker{Checker: NewStaticChecker(model.ProviderAWS, []StaticEntry{
		{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.9},
		{Region: "us-east-1", ResourceType: "t3.small", Available: false, CapacityLevel: 0},
		{Region: "us-west-2", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.6},
	})}
}

func gcpChecker() *countingChecker {
	return &countingChecker{Checker: NewStaticChecker(model.ProviderGCP, []StaticEntry{
		{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 0.8},
	})}
}

func newTestAggregator(checkers map[model.Provider]Checker) (*Aggregator, *Cache) {
	cache := NewCache(5 * time.Minute)
	return NewAggregator(checkers, cache), cache
}

func TestCheckAvailabilityProbesAndCaches(t *testing.T) {
	aws := awsChecker()
	agg, cache := newTestAggregator(map[model.Provider]Checker{model.ProviderAWS: aws})

	result, err := agg.CheckAvailability(context.Background(), model.ProviderAWS, "us-east-1", "t2.micro")
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 0.9, result.CapacityLevel)
	assert.Equal(t, 1, cache.Size(), "successful probe is cached before returning")

	// Second call is served from cache.
	_, err = agg.CheckAvailability(context.Background(), model.ProviderAWS, "us-east-1", "t2.micro")
	require.NoError(t, err)
	assert.Equal(t, 1, aws.Calls())
}

func TestCheckAvailabilityUnknownProvider(t *testing.T) {
	agg, _ := newTestAggregator(map[model.Provider]Checker{model.ProviderAWS: awsChecker()})

	_, err := agg.CheckAvailability(context.Background(), model.ProviderAzure, "eastus", "B1S")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeUnknownProvider))
}

func TestCheckAvailabilityFailureNotCached(t *testing.T) {
	failing := &countingChecker{Checker: FailingChecker{Provider: model.ProviderGCP, Reason: "rate limited"}}
	agg, cache := newTestAggregator(map[model.Provider]Checker{model.ProviderGCP: failing})

	_, err := agg.CheckAvailability(context.Background(), model.ProviderGCP, "us-central1", "f1-micro")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCapacity))
	assert.Equal(t, 0, cache.Size(), "failures are never cached")

	// A failing check is retried on every subsequent call.
	_, err = agg.CheckAvailability(context.Background(), model.ProviderGCP, "us-central1", "f1-micro")
	require.Error(t, err)
	assert.Equal(t, 2, failing.Calls())
}

func TestCheckAllIsolatesFailures(t *testing.T) {
	aws := awsChecker()
	gcp := gcpChecker()
	failing := &countingChecker{Checker: FailingChecker{Provider: model.ProviderAzure, Reason: "throttled"}}

	agg, _ := newTestAggregator(map[model.Provider]Checker{
		model.ProviderAWS:   aws,
		model.ProviderGCP:   gcp,
		model.ProviderAzure: failing,
	})

	requests := []Request{
		{Provider: model.ProviderAWS, Region: "us-east-1", ResourceType: "t2.micro"},
		{Provider: model.ProviderAzure, Region: "eastus", ResourceType: "B1S"},
		{Provider: model.ProviderGCP, Region: "us-central1", ResourceType: "f1-micro"},
	}

	results := agg.CheckAll(context.Background(), requests)
	require.Len(t, results, len(requests), "batch always returns one result per request")

	assert.True(t, results[0].Available)
	assert.Equal(t, 0.9, results[0].CapacityLevel)

	assert.False(t, results[1].Available, "failed request degrades to unavailable")
	assert.Equal(t, 0.0, results[1].CapacityLevel)
	assert.Equal(t, "azure", results[1].ProviderData["provider"])
	assert.Contains(t, results[1].ProviderData["error"], "throttled")

	assert.True(t, results[2].Available)
	assert.Equal(t, 0.8, results[2].CapacityLevel)
}

func TestCheckAllEmptyBatch(t *testing.T) {
	agg, _ := newTestAggregator(map[model.Provider]Checker{model.ProviderAWS: awsChecker()})
	assert.Empty(t, agg.CheckAll(context.Background(), nil))
}

func TestCheckAllBoundedWorkers(t *testing.T) {
	aws := awsChecker()
	cache := NewCache(5 * time.Minute)
	agg := NewAggregator(map[model.Provider]Checker{model.ProviderAWS: aws}, cache, WithWorkers(2))

	requests := make([]Request, 0, 20)
	for i := 0; i < 10; i++ {
		requests = append(requests,
			Request{Provider: model.ProviderAWS, Region: "us-east-1", ResourceType: "t2.micro"},
			Request{Provider: model.ProviderAWS, Region: "us-west-2", ResourceType: "t2.micro"})
	}

	results := agg.CheckAll(context.Background(), requests)
	require.Len(t, results, 20)
	for _, r := range results {
		assert.True(t, r.Available)
	}
}

func TestFilterAvailable(t *testing.T) {
	agg, _ := newTestAggregator(map[model.Provider]Checker{
		model.ProviderAWS: awsChecker(),
		model.ProviderGCP: gcpChecker(),
	})

	resources := []model.Resource{
		model.MustResource(model.ProviderAWS, "ec2", "t2.micro", "us-east-1", 1, 100),
		model.MustResource(model.ProviderAWS, "ec2", "t3.small", "us-east-1", 1, 100),
		model.MustResource(model.ProviderGCP, "compute", "f1-micro", "us-central1", 1, 100),
	}

	available := agg.FilterAvailable(context.Background(), resources)
	require.Len(t, available, 2)
	assert.Equal(t, "t2.micro", available[0].ResourceType)
	assert.Equal(t, "f1-micro", available[1].ResourceType)
}

func TestWarmCachePopulatesCrossProduct(t *testing.T) {
	aws := awsChecker()
	gcp := gcpChecker()
	agg, cache := newTestAggregator(map[model.Provider]Checker{
		model.ProviderAWS: aws,
		model.ProviderGCP: gcp,
	})

	agg.WarmCache(context.Background(), []model.Region{"us-east-1", "us-central1"}, []string{"t2.micro", "f1-micro"})

	// 2 providers x 2 regions x 2 types, every probe succeeds (unknown cells
	// report unavailable, which still caches).
	assert.Equal(t, 8, cache.Size())
	assert.Equal(t, 4, aws.Calls())
	assert.Equal(t, 4, gcp.Calls())

	// Warmed entries are served without new probes.
	_, err := agg.CheckAvailability(context.Background(), model.ProviderAWS, "us-east-1", "t2.micro")
	require.NoError(t, err)
	assert.Equal(t, 4, aws.Calls())
}

func TestSummaryDoesNotProbe(t *testing.T) {
	aws := awsChecker()
	agg, _ := newTestAggregator(map[model.Provider]Checker{model.ProviderAWS: aws})

	summary := agg.Summary()
	require.Contains(t, summary, model.ProviderAWS)
	assert.ElementsMatch(t, []model.Region{"us-east-1", "us-west-2"}, summary[model.ProviderAWS].Regions)
	assert.ElementsMatch(t, []string{"t2.micro", "t3.small"}, summary[model.ProviderAWS].ResourceTypes)
	assert.Equal(t, 0, aws.Calls())
}
