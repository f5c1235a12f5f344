// Package cmd - recommend command
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"cloud-planner/core/constraint"
	"cloud-planner/core/model"
	"cloud-planner/core/recommend"
)

var (
	recServiceType string
	recHours       int64
	recProviders   []string
	recRegions     []string
	recMaxCost     string
)

// recommendCmd ranks candidate configurations for a requirement
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank candidate resource configurations for a requirement",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recServiceType, "service-type", "compute", "service type (compute, storage, functions)")
	recommendCmd.Flags().Int64Var(&recHours, "hours", 0, "estimated monthly hours")
	recommendCmd.Flags().StringSliceVar(&recProviders, "providers", nil, "preferred providers (default aws,gcp,azure)")
	recommendCmd.Flags().StringSliceVar(&recRegions, "regions", nil, "preferred regions (default: no filter)")
	recommendCmd.Flags().StringVar(&recMaxCost, "max-cost", "", "maximum monthly cost in USD (optional)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	recommender := recommend.NewRecommender(constraint.DefaultCatalog())

	requirements := model.Requirements{
		"service_type":            recServiceType,
		"estimated_monthly_hours": recHours,
	}
	if len(recProviders) > 0 {
		requirements["preferred_providers"] = recProviders
	}
	if len(recRegions) > 0 {
		requirements["preferred_regions"] = recRegions
	}
	if recMaxCost != "" {
		requirements["max_cost"] = recMaxCost
	}

	recommendations := recommender.Recommend(requirements, nil)
	return printJSON(os.Stdout, recommendations)
}
