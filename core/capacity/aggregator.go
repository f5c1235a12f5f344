// Package capacity - Concurrent capacity aggregation
// Fan-out/fan-in probing across providers with cache-first lookups and
// per-request failure isolation.
package capacity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cloud-planner/core/model"
	"cloud-planner/internal/errors"
	"cloud-planner/internal/logging"
)

// Request identifies one capacity check.
type Request struct {
	Provider     model.Provider
	Region       model.Region
	ResourceType string
}

// ProviderSummary is static per-provider metadata, gathered without probing.
type ProviderSummary struct {
	Regions       []model.Region `json:"regions"`
	ResourceTypes []string       `json:"resource_types"`
}

// Aggregator orchestrates capacity checks across registered providers.
// Single checks are cache-first; batch checks fan out onto a bounded worker
// pool and isolate per-request failures so one failing provider never aborts
// the rest of a batch.
type Aggregator struct {
	checkers map[model.Provider]Checker
	cache    *Cache
	workers  int
	clock    func() time.Time
	log      *zap.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWorkers bounds the batch worker pool. The default is one worker per
// registered provider.
func WithWorkers(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithAggregatorClock injects a clock for deterministic degraded results.
func WithAggregatorClock(clock func() time.Time) AggregatorOption {
	return func(a *Aggregator) { a.clock = clock }
}

// NewAggregator creates an aggregator over the given provider checkers and
// cache.
func NewAggregator(checkers map[model.Provider]Checker, cache *Cache, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		checkers: checkers,
		cache:    cache,
		workers:  len(checkers),
		clock:    func() time.Time { return time.Now().UTC() },
		log:      logging.Named("capacity"),
	}
	if a.workers < 1 {
		a.workers = 1
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckAvailability checks one (provider, region, resource type) triple.
// The cache is consulted first; on a miss the provider's checker is invoked
// and a successful result is cached before returning. Probe failures
// propagate and are deliberately not cached, so a failing check is retried
// on the next call.
func (a *Aggregator) CheckAvailability(ctx context.Context, provider model.Provider, region model.Region, resourceType string) (model.CapacityResult, error) {
	if cached, ok := a.cache.Get(provider, region, resourceType); ok {
		return cached, nil
	}

	checker, ok := a.checkers[provider]
	if !ok {
		return model.CapacityResult{}, errors.UnknownProvider(provider.String())
	}

	result, err := checker.CheckAvailability(ctx, region, resourceType)
	if err != nil {
		a.log.Warn("capacity probe failed",
			zap.String("provider", provider.String()),
			zap.String("region", region.String()),
			zap.String("resource_type", resourceType),
			zap.Error(err))
		return model.CapacityResult{}, errors.Wrapf(errors.TypeCapacity, err,
			"capacity check failed for %s/%s/%s", provider, region, resourceType)
	}

	a.cache.Set(provider, region, resourceType, result)
	return result, nil
}

// CheckAll fans out one independent check per request onto the bounded worker
// pool and gathers every outcome. A failing request is converted into a
// degraded result (unavailable, zero capacity, error recorded in the provider
// data) instead of aborting the batch; the returned slice always has one
// result per request. The call returns only after every dispatched check
// completes.
func (a *Aggregator) CheckAll(ctx context.Context, requests []Request) []model.CapacityResult {
	results := make([]model.CapacityResult, len(requests))
	if len(requests) == 0 {
		return results
	}

	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, req Request) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := a.CheckAvailability(ctx, req.Provider, req.Region, req.ResourceType)
			if err != nil {
				result = model.UnavailableResult(req.Provider, req.Region, req.ResourceType, err, a.clock())
			}
			results[i] = result
		}(i, req)
	}

	wg.Wait()
	return results
}

// FilterAvailable batch-checks the given resources and keeps only those whose
// capacity result reports available. Input order is preserved; the input
// slice is not modified.
func (a *Aggregator) FilterAvailable(ctx context.Context, resources []model.Resource) []model.Resource {
	requests := make([]Request, len(resources))
	for i, r := range resources {
		requests[i] = Request{Provider: r.Provider, Region: r.Region, ResourceType: r.ResourceType}
	}

	results := a.CheckAll(ctx, requests)

	available := make([]model.Resource, 0, len(resources))
	for i, r := range resources {
		if results[i].Available {
			available = append(available, r)
		}
	}
	return available
}

// WarmCache pre-populates the cache by probing the full cross product of
// registered providers x regions x resource types as one concurrent batch.
// Results are discarded; failed probes simply stay uncached.
func (a *Aggregator) WarmCache(ctx context.Context, regions []model.Region, resourceTypes []string) {
	requests := make([]Request, 0, len(a.checkers)*len(regions)*len(resourceTypes))
	for provider := range a.checkers {
		for _, region := range regions {
			for _, resourceType := range resourceTypes {
				requests = append(requests, Request{Provider: provider, Region: region, ResourceType: resourceType})
			}
		}
	}

	a.log.Debug("warming capacity cache", zap.Int("requests", len(requests)))
	a.CheckAll(ctx, requests)
}

// Summary returns static metadata for every registered provider. No probes
// are issued.
func (a *Aggregator) Summary() map[model.Provider]ProviderSummary {
	summary := make(map[model.Provider]ProviderSummary, len(a.checkers))
	for provider, checker := range a.checkers {
		summary[provider] = ProviderSummary{
			Regions:       checker.AvailableRegions(),
			ResourceTypes: checker.SupportedResourceTypes(),
		}
	}
	return summary
}
