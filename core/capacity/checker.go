// Package capacity provides live capacity probing, caching and aggregation
// across cloud providers.
package capacity

import (
	"context"
	"time"

	"cloud-planner/core/model"
	"cloud-planner/internal/errors"
)

// Checker is the per-provider capacity probe contract. Concrete wire-level
// probes live outside this module; anything conforming to this interface can
// be registered with the Aggregator. A checker's own failures (rate limits,
// API errors) surface as errors from CheckAvailability and are never retried
// here.
type Checker interface {
	// CheckAvailability probes availability of a resource type in a region.
	CheckAvailability(ctx context.Context, region model.Region, resourceType string) (model.CapacityResult, error)

	// AvailableRegions lists the regions this provider supports.
	AvailableRegions() []model.Region

	// SupportedResourceTypes lists the resource types this provider supports.
	SupportedResourceTypes() []string
}

// StaticEntry configures one (region, resource type) cell of a StaticChecker.
type StaticEntry struct {
	Region        model.Region
	ResourceType  string
	Available     bool
	CapacityLevel float64
}

// StaticChecker is a deterministic in-memory Checker backed by a fixed table.
// It stands in for wire-level probes in demos and tests.
type StaticChecker struct {
	provider model.Provider
	entries  map[string]StaticEntry
	regions  []model.Region
	types    []string
	clock    func() time.Time
}

// NewStaticChecker builds a StaticChecker from a table of entries.
func NewStaticChecker(provider model.Provider, entries []StaticEntry) *StaticChecker {
	c := &StaticChecker{
		provider: provider,
		entries:  make(map[string]StaticEntry, len(entries)),
		clock:    func() time.Time { return time.Now().UTC() },
	}
	seenRegion := map[model.Region]bool{}
	seenType := map[string]bool{}
	for _, e := range entries {
		c.entries[string(e.Region)+"/"+e.ResourceType] = e
		if !seenRegion[e.Region] {
			seenRegion[e.Region] = true
			c.regions = append(c.regions, e.Region)
		}
		if !seenType[e.ResourceType] {
			seenType[e.ResourceType] = true
			c.types = append(c.types, e.ResourceType)
		}
	}
	return c
}

// CheckAvailability implements Checker. Unknown (region, type) pairs report
// as unavailable rather than erroring, matching how a real probe treats an
// unoffered instance type.
func (c *StaticChecker) CheckAvailability(_ context.Context, region model.Region, resourceType string) (model.CapacityResult, error) {
	e, ok := c.entries[string(region)+"/"+resourceType]
	if !ok {
		return model.NewCapacityResult(region, resourceType, false, 0, c.clock(),
			map[string]string{"provider": c.provider.String(), "reason": "not offered"})
	}
	return model.NewCapacityResult(region, resourceType, e.Available, e.CapacityLevel, c.clock(),
		map[string]string{"provider": c.provider.String()})
}

// AvailableRegions implements Checker.
func (c *StaticChecker) AvailableRegions() []model.Region {
	out := make([]model.Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// SupportedResourceTypes implements Checker.
func (c *StaticChecker) SupportedResourceTypes() []string {
	out := make([]string, len(c.types))
	copy(out, c.types)
	return out
}

// FailingChecker is a Checker whose probes always fail with a capacity error.
// Useful for exercising failure isolation.
type FailingChecker struct {
	Provider model.Provider
	Reason   string
}

// CheckAvailability implements Checker.
func (f FailingChecker) CheckAvailability(context.Context, model.Region, string) (model.CapacityResult, error) {
	return model.CapacityResult{}, errors.Newf(errors.TypeCapacity, "%s capacity probe failed: %s", f.Provider, f.Reason)
}

// AvailableRegions implements Checker.
func (f FailingChecker) AvailableRegions() []model.Region { return nil }

// SupportedResourceTypes implements Checker.
func (f FailingChecker) SupportedResourceTypes() []string { return nil }
