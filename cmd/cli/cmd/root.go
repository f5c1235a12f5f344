// Package cmd provides the CLI commands for cloud-planner.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloud-planner/internal/config"
	"cloud-planner/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cloud-planner",
	Short: "Plan multi-cloud deployments that maximize free-tier quotas",
	Long: `cloud-planner builds deployment plans that squeeze the most out of
cloud vendor free-tier quotas while respecting live capacity.

Examples:
  cloud-planner plan --compute-hours 1200 --free-tier-only
  cloud-planner plan --compute-hours 2000 --storage-gb 50 --budget 25
  cloud-planner recommend --service-type compute --hours 500
  cloud-planner capacity`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cloud-planner.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(capacityCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cloud-planner v0.1.0")
	},
}
