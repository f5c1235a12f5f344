// Package main is the entry point for the cloud-planner CLI.
package main

import (
	"os"

	"cloud-planner/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
