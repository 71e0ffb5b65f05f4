// Package app wires storage, services and the HTTP API into a runnable server.
package app

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"migration-estimator/adapters/storage"
	"migration-estimator/api"
	"migration-estimator/core/account"
	"migration-estimator/core/audit"
	"migration-estimator/core/estimation"
	"migration-estimator/core/submission"
	"migration-estimator/core/types"
	"migration-estimator/internal/auth"
	"migration-estimator/internal/config"
	"migration-estimator/internal/errors"
)

// App is a fully wired estimator service
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *storage.GormStore
	handler http.Handler
}

// New validates cfg, opens storage and builds the HTTP handler
func New(cfg *config.Config, version string, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.Secret == config.PlaceholderSecret {
		log.Warn("auth.secret is the built-in default; tokens can be forged by anyone who knows it")
	}

	auditSvc := audit.NewService(store, log)
	accounts := account.NewService(store, auditSvc, log)
	engine := estimation.NewEngine()

	if email := cfg.Auth.BootstrapAdminEmail; email != "" {
		if _, _, err := accounts.Bootstrap(context.Background(), email, types.RoleAdmin); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	srv := api.NewServer(api.Deps{
		Submissions: submission.NewService(store, engine, auditSvc, log),
		Accounts:    accounts,
		Audit:       auditSvc,
		Verifier:    auth.NewVerifier(cfg.Auth),
		Users:       store,
		Store:       store,
		Logger:      log,
		Version:     version,
		Server:      cfg.Server,
		RateLimit:   cfg.RateLimit,
	})

	return &App{cfg: cfg, log: log, store: store, handler: srv}, nil
}

// Handler returns the HTTP handler
func (a *App) Handler() http.Handler {
	return a.handler
}

// Store returns the opened store
func (a *App) Store() storage.Store {
	return a.store
}

// Run listens on the configured address and serves until ctx is done
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "failed to listen on "+a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then drains in-flight requests
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	sc := a.cfg.Server
	httpServer := &http.Server{
		Handler:      a.handler,
		ReadTimeout:  time.Duration(sc.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(sc.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(sc.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Internal("graceful shutdown failed", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases storage
func (a *App) Close() error {
	return a.store.Close()
}

// ListenAndServe builds an App from cfg and serves until ctx is done
func ListenAndServe(ctx context.Context, cfg *config.Config, version string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	a, err := New(cfg, version, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("failed to close storage", zap.Error(err))
		}
	}()
	return a.Run(ctx)
}
