// Package model - Capacity probe results
package model

import (
	"time"

	"cloud-planner/internal/errors"
)

// CapacityResult is the outcome of one capacity availability probe.
// Results are created once per probe and cached with a write timestamp.
type CapacityResult struct {
	// Region is the probed region
	Region Region `json:"region"`

	// ResourceType is the probed resource type
	ResourceType string `json:"resource_type"`

	// Available reports whether the resource type can currently be launched
	Available bool `json:"available"`

	// CapacityLevel is the fraction of available supply, in [0, 1]
	CapacityLevel float64 `json:"capacity_level"`

	// LastChecked is when the probe ran
	LastChecked time.Time `json:"last_checked"`

	// ProviderData carries opaque provider-specific details
	ProviderData map[string]string `json:"provider_data,omitempty"`
}

// NewCapacityResult builds a validated CapacityResult.
func NewCapacityResult(region Region, resourceType string, available bool, capacityLevel float64, lastChecked time.Time, providerData map[string]string) (CapacityResult, error) {
	if capacityLevel < 0 || capacityLevel > 1 {
		return CapacityResult{}, errors.Validationf("capacity_level must be in [0, 1], got %g", capacityLevel)
	}

	return CapacityResult{
		Region:        region,
		ResourceType:  resourceType,
		Available:     available,
		CapacityLevel: capacityLevel,
		LastChecked:   lastChecked,
		ProviderData:  providerData,
	}, nil
}

// UnavailableResult builds the degraded result used when a probe fails:
// not available, zero capacity, with the provider and error recorded.
func UnavailableResult(provider Provider, region Region, resourceType string, checkErr error, at time.Time) CapacityResult {
	data := map[string]string{"provider": provider.String()}
	if checkErr != nil {
		data["error"] = checkErr.Error()
	}
	return CapacityResult{
		Region:        region,
		ResourceType:  resourceType,
		Available:     false,
		CapacityLevel: 0,
		LastChecked:   at,
		ProviderData:  data,
	}
}
