// Command balancesyncd runs a single balance sync pass and exits. It is meant
// to be invoked by cron or a container scheduler; partial success is a normal
// outcome and exits zero.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cashlens/cashlens/internal/application/usecase"
	"github.com/cashlens/cashlens/internal/infrastructure/adapter"
	"github.com/cashlens/cashlens/internal/infrastructure/config"
	infrakafka "github.com/cashlens/cashlens/internal/infrastructure/kafka"
	infrapostgres "github.com/cashlens/cashlens/internal/infrastructure/postgres"
	"github.com/cashlens/cashlens/pkg/observability"
	"github.com/cashlens/cashlens/pkg/openbanking"
	"github.com/cashlens/cashlens/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "balancesyncd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := observability.InitLogger(cfg.Log)
	logger.Info("starting balance sync pass")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	plaidClient := openbanking.NewPlaidHTTPClient(cfg.Plaid, nil)
	provider := adapter.NewPlaidAdapter(plaidClient)

	publisher := infrakafka.NewPublisher(cfg.Kafka.Brokers, logger)
	defer publisher.Close()

	accountRepo := infrapostgres.NewAccountRepository(pool)
	snapshotRepo := infrapostgres.NewSnapshotRepository(pool)

	syncUC := usecase.NewSyncBalancesUseCase(accountRepo, snapshotRepo, provider, publisher, logger)

	report, err := syncUC.Execute(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}

	for _, group := range report.Groups {
		logger.Info("group result",
			"item_id", group.ProviderItemID,
			"status", group.Status,
			"accounts", group.Accounts,
			"snapshots_written", group.SnapshotsWritten,
		)
	}
	logger.Info("balance sync pass complete",
		"groups", len(report.Groups),
		"snapshots_written", report.SnapshotsWritten,
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
	)
	return nil
}
