// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kelseyhightower/envconfig"

	"migration-estimator/internal/errors"
	"migration-estimator/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. ESTIMATOR_SERVER_ADDR
const EnvPrefix = "ESTIMATOR"

// PlaceholderSecret is the default auth secret. It is refused on postgres.
const PlaceholderSecret = "change-me-in-production"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" ignored:"true"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" envconfig:"SERVER"`

	// Database contains storage configuration
	Database DatabaseConfig `json:"database" envconfig:"DATABASE"`

	// Auth contains bearer token configuration
	Auth AuthConfig `json:"auth" envconfig:"AUTH"`

	// RateLimit contains estimate endpoint throttling
	RateLimit RateLimitConfig `json:"rate_limit" envconfig:"RATE_LIMIT"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr           string   `json:"addr" hcl:"addr,optional" envconfig:"ADDR"`
	AllowedOrigins []string `json:"allowed_origins" hcl:"allowed_origins,optional" envconfig:"ALLOWED_ORIGINS"`

	ReadTimeoutSeconds     int `json:"read_timeout_seconds" hcl:"read_timeout_seconds,optional" envconfig:"READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds    int `json:"write_timeout_seconds" hcl:"write_timeout_seconds,optional" envconfig:"WRITE_TIMEOUT_SECONDS"`
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" hcl:"shutdown_timeout_seconds,optional" envconfig:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// DatabaseConfig contains persistence settings
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver string `json:"driver" hcl:"driver,optional" envconfig:"DRIVER"`

	// DSN is the driver-specific connection string
	DSN string `json:"dsn" hcl:"dsn,optional" envconfig:"DSN"`

	MaxIdleConns int `json:"max_idle_conns" hcl:"max_idle_conns,optional" envconfig:"MAX_IDLE_CONNS"`
	MaxOpenConns int `json:"max_open_conns" hcl:"max_open_conns,optional" envconfig:"MAX_OPEN_CONNS"`
}

// AuthConfig contains token signing settings
type AuthConfig struct {
	Secret          string `json:"secret" hcl:"secret,optional" envconfig:"SECRET"`
	Issuer          string `json:"issuer" hcl:"issuer,optional" envconfig:"ISSUER"`
	TokenTTLMinutes int    `json:"token_ttl_minutes" hcl:"token_ttl_minutes,optional" envconfig:"TOKEN_TTL_MINUTES"`

	// BootstrapAdminEmail is created as an active admin at startup when no
	// user with that email exists
	BootstrapAdminEmail string `json:"bootstrap_admin_email,omitempty" hcl:"bootstrap_admin_email,optional" envconfig:"BOOTSTRAP_ADMIN_EMAIL"`
}

// RateLimitConfig contains per-client throttling for estimate requests
type RateLimitConfig struct {
	Enabled           bool `json:"enabled" hcl:"enabled,optional" envconfig:"ENABLED"`
	EstimatePerMinute int  `json:"estimate_per_minute" hcl:"estimate_per_minute,optional" envconfig:"ESTIMATE_PER_MINUTE"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".migration-estimator", "estimator.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                   ":8000",
			AllowedOrigins:         []string{"http://localhost:3000"},
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          dbPath,
			MaxIdleConns: 10,
			MaxOpenConns: 100,
		},
		Auth: AuthConfig{
			Secret:          PlaceholderSecret,
			Issuer:          "migration-estimator",
			TokenTTLMinutes: 30,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			EstimatePerMinute: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields defaults.
// Files ending in .hcl are HCL; anything else is JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err)
	}

	config := Default()
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if err := decodeHCL(path, data, config); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to parse HCL config", err)
		}
		return config, nil
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to parse JSON config", err)
	}
	return config, nil
}

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "version"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "server"},
		{Type: "database"},
		{Type: "auth"},
		{Type: "rate_limit"},
		{Type: "logging"},
	},
}

// decodeHCL decodes each section block onto the defaults already in cfg,
// so attributes absent from the file keep their default values.
func decodeHCL(path string, data []byte, cfg *Config) error {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return diags
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return diags
	}

	if attr, ok := content.Attributes["version"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &cfg.Version); diags.HasErrors() {
			return diags
		}
	}

	for _, block := range content.Blocks {
		var target interface{}
		switch block.Type {
		case "server":
			target = &cfg.Server
		case "database":
			target = &cfg.Database
		case "auth":
			target = &cfg.Auth
		case "rate_limit":
			target = &cfg.RateLimit
		case "logging":
			target = &cfg.Logging
		}
		if diags := gohcl.DecodeBody(block.Body, nil, target); diags.HasErrors() {
			return diags
		}
	}
	return nil
}

// ApplyEnv overlays ESTIMATOR_* environment variables onto c
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to read environment", err)
	}
	return nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New(errors.TypeConfig, "server.addr is required")
	case c.Database.Driver != "postgres" && c.Database.Driver != "sqlite":
		return errors.Newf(errors.TypeConfig, "unsupported database.driver: %q", c.Database.Driver)
	case c.Database.DSN == "":
		return errors.New(errors.TypeConfig, "database.dsn is required")
	case c.Auth.Secret == "":
		return errors.New(errors.TypeConfig, "auth.secret is required")
	case c.Auth.Secret == PlaceholderSecret && c.Database.Driver == "postgres":
		return errors.New(errors.TypeConfig, "auth.secret must be changed from the default when using postgres")
	case c.Auth.TokenTTLMinutes <= 0:
		return errors.New(errors.TypeConfig, "auth.token_ttl_minutes must be positive")
	case c.RateLimit.Enabled && c.RateLimit.EstimatePerMinute <= 0:
		return errors.New(errors.TypeConfig, "rate_limit.estimate_per_minute must be positive")
	}
	return nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
