// Package cmd - capacity command
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"cloud-planner/core/capacity"
	"cloud-planner/core/model"
	"cloud-planner/internal/config"
)

// capacityCmd prints the capacity summary for the demo checkers
var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Show per-provider capacity metadata",
	Long: `Show supported regions and resource types per provider, using the
built-in demo checkers. Production deployments register real probes through
the capacity.Checker interface.`,
	RunE: runCapacity,
}

func runCapacity(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	cache := capacity.NewCache(time.Duration(cfg.Capacity.CacheTTLSeconds) * time.Second)
	aggregator := capacity.NewAggregator(demoCheckers(), cache,
		capacity.WithWorkers(cfg.Capacity.Workers))

	return printJSON(os.Stdout, aggregator.Summary())
}

// demoCheckers builds deterministic checkers covering the built-in catalog.
func demoCheckers() map[model.Provider]capacity.Checker {
	return map[model.Provider]capacity.Checker{
		model.ProviderAWS: capacity.NewStaticChecker(model.ProviderAWS, []capacity.StaticEntry{
			{Region: "us-east-1", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.9},
			{Region: "us-east-1", ResourceType: "standard", Available: true, CapacityLevel: 1.0},
			{Region: "us-west-2", ResourceType: "t2.micro", Available: true, CapacityLevel: 0.7},
		}),
		model.ProviderGCP: capacity.NewStaticChecker(model.ProviderGCP, []capacity.StaticEntry{
			{Region: "us-central1", ResourceType: "f1-micro", Available: true, CapacityLevel: 0.8},
			{Region: "us-central1", ResourceType: "standard", Available: true, CapacityLevel: 1.0},
		}),
		model.ProviderAzure: capacity.NewStaticChecker(model.ProviderAzure, []capacity.StaticEntry{
			{Region: "eastus", ResourceType: "B1S", Available: true, CapacityLevel: 0.6},
		}),
	}
}
