package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migration-estimator/core/output"
	"migration-estimator/core/types"
	"migration-estimator/internal/auth"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEstimateJSON(t *testing.T) {
	out, err := execute(t, "estimate", "--volume", "3000001", "--format", "json")
	require.NoError(t, err)

	var view output.EstimateView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "41500.00", view.Cost)
	assert.Equal(t, "9.0", view.EffortWeeks)
	assert.Equal(t, int64(1), view.Breakdown.AdditionalTiers)
}

func TestEstimateCLI(t *testing.T) {
	out, err := execute(t, "estimate", "--volume", "1000000", "--format", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "$35000.00")
	assert.Contains(t, out, "Total weeks")
}

func TestEstimateErrors(t *testing.T) {
	_, err := execute(t, "estimate", "--volume", "0", "--format", "json")
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))

	_, err = execute(t, "estimate", "--volume", "10", "--format", "yaml")
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestAddonCommands(t *testing.T) {
	out, err := execute(t, "addons", "--format", "json")
	require.NoError(t, err)
	var catalog map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	assert.Len(t, catalog, 3)
	assert.Equal(t, "4000.00", catalog["hypercare_support"])

	out, err = execute(t, "addon-cost", "--service", "hypercare_support", "--weeks", "3", "--format", "json")
	require.NoError(t, err)
	var quote output.AddonQuote
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, "12000.00", quote.TotalCost)

	_, err = execute(t, "addon-cost", "--service", "translation", "--weeks", "3", "--format", "json")
	assert.True(t, errors.IsType(err, errors.TypeUnknownService))
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--user-id", "7", "--email", "sales@example.com", "--role", "sales")
	require.NoError(t, err)

	p, err := auth.NewVerifier(config.Get().Auth).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint(7), p.UserID)
	assert.Equal(t, types.RoleSales, p.Role)

	_, err = execute(t, "token", "--user-id", "7", "--role", "owner")
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "migration-estimator version "+Version+"\n", out)
}

func TestUserCreate(t *testing.T) {
	t.Setenv("ESTIMATOR_DATABASE_DSN", filepath.Join(t.TempDir(), "cli.db"))

	out, err := execute(t, "user", "create", "--email", "ops@example.com", "--role", "admin")
	require.NoError(t, err)
	assert.Equal(t, "created user_id=1 email=ops@example.com role=admin active=true\n", out)

	out, err = execute(t, "user", "create", "--email", "ops@example.com", "--role", "admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "exists user_id=1 "), out)

	_, err = execute(t, "user", "create", "--email", "sales@example.com", "--role", "owner")
	assert.True(t, errors.IsType(err, errors.TypeValidation))
}
