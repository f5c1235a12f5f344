// Package model - Planned resources and plans
package model

import (
	"time"

	"github.com/google/uuid"

	"cloud-planner/internal/errors"
)

// Resource is a planned resource in a deployment. Resources are caller-owned;
// the engine never mutates one in place - transformations produce new values.
type Resource struct {
	// Provider is the cloud provider
	Provider Provider `json:"provider"`

	// Service is the service name
	Service string `json:"service"`

	// ResourceType is the resource type name
	ResourceType string `json:"resource_type"`

	// Region is the deployment region
	Region Region `json:"region"`

	// Quantity is the number of instances
	Quantity int `json:"quantity"`

	// EstimatedMonthlyUsage is the estimated monthly usage per instance
	// (hours for compute, GB for storage)
	EstimatedMonthlyUsage int64 `json:"estimated_monthly_usage"`
}

// NewResource builds a validated Resource.
func NewResource(provider Provider, service, resourceType string, region Region, quantity int, estimatedMonthlyUsage int64) (Resource, error) {
	if provider == "" || service == "" || resourceType == "" {
		return Resource{}, errors.Validation("resource provider, service and resource_type must not be empty")
	}
	if quantity < 1 {
		return Resource{}, errors.Validationf("resource quantity must be >= 1, got %d", quantity)
	}
	if estimatedMonthlyUsage < 0 {
		return Resource{}, errors.Validationf("resource estimated_monthly_usage must be >= 0, got %d", estimatedMonthlyUsage)
	}

	return Resource{
		Provider:              provider,
		Service:               service,
		ResourceType:          resourceType,
		Region:                region,
		Quantity:              quantity,
		EstimatedMonthlyUsage: estimatedMonthlyUsage,
	}, nil
}

// MustResource is NewResource that panics on invalid input.
func MustResource(provider Provider, service, resourceType string, region Region, quantity int, estimatedMonthlyUsage int64) Resource {
	r, err := NewResource(provider, service, resourceType, region, quantity, estimatedMonthlyUsage)
	if err != nil {
		panic(err)
	}
	return r
}

// TotalUsage returns quantity x estimated monthly usage.
func (r Resource) TotalUsage() int64 {
	return int64(r.Quantity) * r.EstimatedMonthlyUsage
}

// Plan is a complete deployment plan: an ordered sequence of resources.
type Plan struct {
	// ID uniquely identifies this plan
	ID string `json:"id"`

	// Name is the plan name
	Name string `json:"name"`

	// Description is the plan description
	Description string `json:"description"`

	// Resources are the planned resources, in allocation order
	Resources []Resource `json:"resources"`

	// CreatedAt is the plan creation time
	CreatedAt time.Time `json:"created_at"`
}

// NewPlan creates an empty plan with a fresh identity.
func NewPlan(name, description string) *Plan {
	return &Plan{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Resources:   []Resource{},
		CreatedAt:   time.Now().UTC(),
	}
}

// Append returns the plan with a resource added. Mutates only the receiver,
// never shared resources.
func (p *Plan) Append(resources ...Resource) *Plan {
	p.Resources = append(p.Resources, resources...)
	return p
}

// IsEmpty reports whether the plan contains no resources.
func (p *Plan) IsEmpty() bool {
	return len(p.Resources) == 0
}
