package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"migration-estimator/adapters/storage"
	"migration-estimator/core/types"
	"migration-estimator/internal/config"
)

// NewStore opens a migrated in-memory sqlite store private to t
func NewStore(t *testing.T) *storage.GormStore {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	store, err := storage.Open(config.DatabaseConfig{
		Driver: string(storage.BackendSQLite),
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedUser inserts an active user with role and returns it as a principal
func SeedUser(t *testing.T, store storage.Store, email string, role types.Role) types.Principal {
	t.Helper()
	u := &types.User{Email: email, Role: role, IsActive: true}
	require.NoError(t, store.CreateUser(t.Context(), u))
	return types.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
