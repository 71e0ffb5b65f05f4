// Package cmd - development token command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"migration-estimator/core/types"
	"migration-estimator/internal/auth"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

var (
	tokenUserID uint
	tokenEmail  string
	tokenRole   string
)

// tokenCmd signs a bearer token with the configured secret
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token for local testing",
	Long: `Sign an HS256 bearer token with the configured auth secret.
The user must exist and be active for the server to accept it; seed one
with "user create" or auth.bootstrap_admin_email.

Examples:
  migration-estimator token --user-id 1 --email admin@example.com --role admin`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUserID, "user-id", 0, "user id (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(types.RoleEndUser), "role (end_user, sales, admin)")
	_ = tokenCmd.MarkFlagRequired("user-id")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	role := types.Role(tokenRole)
	if !role.Valid() {
		return errors.Newf(errors.TypeValidation, "unknown role: %q", tokenRole)
	}
	if tokenUserID == 0 {
		return errors.New(errors.TypeValidation, "user-id must be positive")
	}

	token, err := auth.NewIssuer(config.Get().Auth).Issue(types.Principal{
		UserID: tokenUserID,
		Email:  tokenEmail,
		Role:   role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
