// Package cmd - estimate command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"migration-estimator/core/estimation"
	"migration-estimator/core/output"
	"migration-estimator/internal/logging"
)

var (
	outputFormat  string
	messageVolume int64
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate migration cost and timeline for a message volume",
	Long: `Compute the cost and timeline breakdown for a migration of the given
monthly message volume. Nothing is stored.

Examples:
  migration-estimator estimate --volume 1000000
  migration-estimator estimate --volume 6000001 --format json`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().Int64Var(&messageVolume, "volume", 0, "monthly message volume (required)")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	_ = estimateCmd.MarkFlagRequired("volume")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	formatter, err := output.New(output.Format(outputFormat))
	if err != nil {
		return err
	}

	est, err := estimation.NewEngine().ComputeEstimate(messageVolume)
	if err != nil {
		return err
	}

	logging.Logger.Debug("estimate computed",
		zap.Int64("message_volume", messageVolume),
		zap.String("total_cost", output.Money(est.TotalCost())))

	return formatter.RenderEstimate(cmd.OutOrStdout(), output.NewEstimateView(est))
}
