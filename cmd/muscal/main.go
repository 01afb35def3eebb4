package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "muscal/internal/adapter/http"
	"muscal/internal/adapter/memory"
	"muscal/internal/adapter/postgres"
	"muscal/internal/app"
	"muscal/internal/config"
	"muscal/internal/domain"
	"muscal/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var sso *adapthttp.SSO
	if cfg.OIDC.Enabled() {
		if sso, err = adapthttp.NewSSO(ctx, cfg.OIDC); err != nil {
			return err
		}
		logger.Info("sso enabled", zap.String("issuer", cfg.OIDC.Issuer))
	}

	tokens := app.NewTokenService(cfg)
	h := adapthttp.New(adapthttp.Services{
		Auth:    app.NewAuthService(store, tokens, logger),
		Catalog: app.NewCatalogService(store, logger),
		Ledger:  app.NewLedgerService(store, logger),
		Goals:   app.NewGoalService(store, logger),
		History: app.NewHistoryService(store),
	}, sso, logger).Handler()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (domain.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return memory.New(), func() {}, nil
	}
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	return db, func() { _ = db.Close() }, nil
}
