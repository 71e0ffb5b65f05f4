// Package cmd provides the CLI commands for migration-estimator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"migration-estimator/internal/config"
	"migration-estimator/internal/logging"
)

// Version is the CLI and server version
var Version = "1.0.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migration-estimator",
	Short: "Estimate messaging migration cost and timeline",
	Long: `migration-estimator prices a messaging platform migration from its
monthly message volume and quotes optional add-on services.

Examples:
  migration-estimator estimate --volume 3000001
  migration-estimator estimate --volume 30000000 --format json
  migration-estimator addon-cost --service hypercare_support --weeks 3
  migration-estimator user create --email ops@example.com --role admin
  migration-estimator serve --addr :8000`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, .hcl or .json (default is built-in settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "migration-estimator version %s\n", Version)
	},
}
