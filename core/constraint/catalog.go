// Package constraint - Built-in free-tier catalog
package constraint

import (
	"github.com/shopspring/decimal"

	"cloud-planner/core/model"
)

// DefaultCatalog returns the built-in free-tier quota catalog for the three
// canonical providers. It is a convenience for demos and tests; production
// callers supply their own constraint lists.
func DefaultCatalog() []model.Constraint {
	free := decimal.Zero
	return []model.Constraint{
		model.MustConstraint(model.ProviderAWS, "ec2", "t2.micro", model.WildcardRegion,
			"free_tier_hours", 750, "monthly", "USD", free),
		model.MustConstraint(model.ProviderAWS, "s3", "standard", model.WildcardRegion,
			"free_tier_gb", 5, "monthly", "USD", free),
		model.MustConstraint(model.ProviderAWS, "lambda", "requests", model.WildcardRegion,
			"free_tier_requests", 1000000, "monthly", "USD", free),
		model.MustConstraint(model.ProviderGCP, "compute", "f1-micro", "us-central1",
			"free_tier_hours", 744, "monthly", "USD", free),
		model.MustConstraint(model.ProviderGCP, "storage", "standard", model.WildcardRegion,
			"free_tier_gb", 5, "monthly", "USD", free),
		model.MustConstraint(model.ProviderAzure, "compute", "B1S", model.WildcardRegion,
			"free_tier_hours", 750, "monthly", "USD", free),
	}
}
