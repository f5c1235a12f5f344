// Package cmd - plan command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cloud-planner/core/constraint"
	"cloud-planner/core/cost"
	"cloud-planner/core/model"
	"cloud-planner/core/optimize"
)

var (
	planComputeHours int64
	planStorageGB    int64
	planBudget       string
	planFreeTierOnly bool
	planProviders    []string
)

// planCmd builds an optimized plan over the built-in free-tier catalog
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a cost-optimized deployment plan",
	Long: `Build a deployment plan for an aggregate requirement by greedily
allocating across the built-in free-tier quota catalog, free tier first,
then cheapest paid options.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Int64Var(&planComputeHours, "compute-hours", 0, "required compute hours per month")
	planCmd.Flags().Int64Var(&planStorageGB, "storage-gb", 0, "required storage GB per month")
	planCmd.Flags().StringVar(&planBudget, "budget", "", "monthly budget in USD (optional)")
	planCmd.Flags().BoolVar(&planFreeTierOnly, "free-tier-only", false, "use free tier quotas only")
	planCmd.Flags().StringSliceVar(&planProviders, "providers", nil, "preferred providers (default aws,gcp,azure)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	constraints := constraint.DefaultCatalog()
	optimizer := optimize.NewOptimizer(constraints)

	requirements := model.Requirements{
		"compute_hours": planComputeHours,
		"storage_gb":    planStorageGB,
	}
	if len(planProviders) > 0 {
		requirements["preferred_providers"] = planProviders
	}

	var (
		plan *model.Plan
		err  error
	)
	switch {
	case planFreeTierOnly:
		plan, err = optimizer.OptimizeFreeTierOnly(requirements)
	case planBudget != "":
		budget, parseErr := decimal.NewFromString(planBudget)
		if parseErr != nil {
			return fmt.Errorf("invalid budget %q: %w", planBudget, parseErr)
		}
		requirements["max_budget"] = budget
		plan, err = optimizer.OptimizeWithinBudget(requirements)
	default:
		// Treat the requirement as a draft plan and re-optimize it.
		draft := model.NewPlan("requested", "Requested aggregate requirement")
		if planComputeHours > 0 {
			draft.Append(model.MustResource(model.ProviderAWS, "ec2", "t2.micro", model.DefaultRegion, 1, planComputeHours))
		}
		if planStorageGB > 0 {
			draft.Append(model.MustResource(model.ProviderAWS, "s3", "standard", model.DefaultRegion, 1, planStorageGB))
		}
		plan = optimizer.OptimizeForCost(draft)
	}
	if err != nil {
		return err
	}

	calculator := cost.NewCalculator(constraints)
	result := calculator.CalculatePlanCost(plan, nil)

	return printJSON(os.Stdout, struct {
		Plan      *model.Plan `json:"plan"`
		TotalCost string      `json:"total_cost"`
	}{Plan: plan, TotalCost: result.TotalCost.StringFixed(2)})
}

func printJSON(w *os.File, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
