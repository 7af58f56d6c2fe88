package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cashlens/cashlens/internal/application/usecase"
	"github.com/cashlens/cashlens/internal/infrastructure/adapter"
	"github.com/cashlens/cashlens/internal/infrastructure/config"
	infrakafka "github.com/cashlens/cashlens/internal/infrastructure/kafka"
	infrapostgres "github.com/cashlens/cashlens/internal/infrastructure/postgres"
	"github.com/cashlens/cashlens/internal/presentation/rest"
	"github.com/cashlens/cashlens/pkg/auth"
	"github.com/cashlens/cashlens/pkg/observability"
	"github.com/cashlens/cashlens/pkg/openbanking"
	"github.com/cashlens/cashlens/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cashlensd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(cfg.Log)
	logger.Info("starting cashlensd", "http_port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database pool.
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()
	logger.Info("database pool created")

	if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations applied")

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background())

	// Provider client.
	plaidClient := openbanking.NewPlaidHTTPClient(cfg.Plaid, nil)
	provider := adapter.NewPlaidAdapter(plaidClient)

	// Event publisher.
	publisher := infrakafka.NewPublisher(cfg.Kafka.Brokers, logger)
	defer publisher.Close()

	// Repositories.
	accountRepo := infrapostgres.NewAccountRepository(pool)
	snapshotRepo := infrapostgres.NewSnapshotRepository(pool)

	// Use cases.
	linkUC := usecase.NewLinkAccountUseCase(accountRepo, provider, publisher, logger)
	balancesUC := usecase.NewGetBalancesUseCase(accountRepo, snapshotRepo, logger)
	historyUC := usecase.NewBalanceHistoryUseCase(accountRepo, snapshotRepo, logger)
	cashflowUC := usecase.NewMonthlyCashflowUseCase(accountRepo, provider, logger)
	comparisonUC := usecase.NewMonthlyComparisonUseCase(accountRepo, snapshotRepo, logger)
	categoriesUC := usecase.NewUpdateCategoriesUseCase(accountRepo, logger)
	deactivateUC := usecase.NewDeactivateAccountUseCase(accountRepo, logger)
	syncUC := usecase.NewSyncBalancesUseCase(accountRepo, snapshotRepo, provider, publisher, logger)

	// JWT validation for the query surface.
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	}
	if cfg.JWT.PublicKeyFile != "" {
		keyData, err := auth.LoadKeyFromFile(cfg.JWT.PublicKeyFile)
		if err != nil {
			return fmt.Errorf("load JWT public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
		jwtCfg.Secret = ""
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// HTTP server.
	handler := rest.NewHandler(
		linkUC, balancesUC, historyUC, cashflowUC,
		comparisonUC, categoriesUC, deactivateUC, syncUC,
		logger,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, func() error {
		checkCtx, checkCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer checkCancel()
		return postgres.HealthCheck(checkCtx, pool)
	})
	mux.Handle("GET /metrics", metricsHandler)

	var root http.Handler = mux
	root = auth.Middleware(jwtSvc, rest.SkipAuthPaths)(root)
	root = rest.LoggingMiddleware(logger)(root)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      root,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	cancel()
	logger.Info("cashlensd stopped")
	return nil
}
