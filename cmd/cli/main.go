// Package main is the entry point for the migration-estimator CLI.
package main

import (
	"os"

	"migration-estimator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
