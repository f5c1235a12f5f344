// Package model defines the planner's core domain types.
// This package contains validation at construction time - no planning logic.
package model

// Provider represents a cloud provider
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderGCP   Provider = "gcp"
	ProviderAzure Provider = "azure"
)

// String returns the string representation of the provider
func (p Provider) String() string {
	return string(p)
}

// IsCanonical checks if the provider is one of the three canonical providers
func (p Provider) IsCanonical() bool {
	switch p {
	case ProviderAWS, ProviderGCP, ProviderAzure:
		return true
	default:
		return false
	}
}

// CanonicalProviders returns the canonical providers in preference order
func CanonicalProviders() []Provider {
	return []Provider{ProviderAWS, ProviderGCP, ProviderAzure}
}

// Region represents a cloud region
type Region string

// WildcardRegion matches any resource region in a constraint
const WildcardRegion Region = "*"

// DefaultRegion is substituted when a wildcard constraint must be resolved
// to a concrete deployment region.
const DefaultRegion Region = "us-east-1"

// String returns the string representation
func (r Region) String() string {
	return string(r)
}

// IsWildcard reports whether the region matches any region
func (r Region) IsWildcard() bool {
	return r == WildcardRegion
}
