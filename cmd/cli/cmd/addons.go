// Package cmd - add-on service commands
package cmd

import (
	"github.com/spf13/cobra"

	"migration-estimator/core/estimation"
	"migration-estimator/core/output"
)

var (
	addonService string
	addonWeeks   int64
)

// addonsCmd lists the add-on catalog
var addonsCmd = &cobra.Command{
	Use:   "addons",
	Short: "List add-on services and their weekly rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := output.New(output.Format(outputFormat))
		if err != nil {
			return err
		}
		return formatter.RenderCatalog(cmd.OutOrStdout(), output.NewCatalog(estimation.AddonServicePricing()))
	},
}

// addonCostCmd quotes one add-on service
var addonCostCmd = &cobra.Command{
	Use:   "addon-cost",
	Short: "Quote an add-on service for a number of weeks",
	Long: `Quote an add-on service at its weekly rate.

Examples:
  migration-estimator addon-cost --service hypercare_support --weeks 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := output.New(output.Format(outputFormat))
		if err != nil {
			return err
		}
		quote, err := output.Quote(estimation.AddonService(addonService), addonWeeks)
		if err != nil {
			return err
		}
		return formatter.RenderQuote(cmd.OutOrStdout(), quote)
	},
}

func init() {
	for _, c := range []*cobra.Command{addonsCmd, addonCostCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	}
	addonCostCmd.Flags().StringVar(&addonService, "service", "", "add-on service name (required)")
	addonCostCmd.Flags().Int64Var(&addonWeeks, "weeks", 0, "number of weeks (required)")
	_ = addonCostCmd.MarkFlagRequired("service")
	_ = addonCostCmd.MarkFlagRequired("weeks")

	rootCmd.AddCommand(addonsCmd)
	rootCmd.AddCommand(addonCostCmd)
}
