// Package cmd - user management commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"migration-estimator/adapters/storage"
	"migration-estimator/core/account"
	"migration-estimator/core/audit"
	"migration-estimator/core/types"
	"migration-estimator/internal/config"
	"migration-estimator/internal/logging"
)

var (
	userEmail string
	userRole  string
)

// userCmd groups user management commands run directly against storage
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts in the configured database",
}

// userCreateCmd seeds an account, typically the first admin
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active user if none exists with the email",
	Long: `Create an active user directly in the configured database. An existing
user with the same email is left unchanged.

Examples:
  migration-estimator user create --email ops@example.com --role admin`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "user email (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(types.RoleAdmin), "role (end_user, sales, admin)")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	log := logging.Named("cli")
	store, err := storage.Open(config.Get().Database, log)
	if err != nil {
		return err
	}
	defer store.Close()

	accounts := account.NewService(store, audit.NewService(store, log), log)
	user, created, err := accounts.Bootstrap(cmd.Context(), userEmail, types.Role(userRole))
	if err != nil {
		return err
	}

	state := "exists"
	if created {
		state = "created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s user_id=%d email=%s role=%s active=%t\n",
		state, user.ID, user.Email, user.Role, user.IsActive)
	return nil
}
