// Package main - Entry point for the migration estimator HTTP server
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"migration-estimator/internal/app"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
	"migration-estimator/internal/logging"
)

const version = "1.0.0"

var (
	cfgFile string
	addr    string
)

var rootCmd = &cobra.Command{
	Use:          "estimator-server",
	Short:        "Serve the migration estimator HTTP API",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file, .hcl or .json")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to initialize logging", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting migration estimator",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("database", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.ListenAndServe(ctx, cfg, version, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
