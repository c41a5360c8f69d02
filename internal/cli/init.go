// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/fintrack, cmd/recurring-worker, cmd/report-export and cmd/fintrack-admin.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/amqp"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/config"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/services"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/storage"
)

// LoadConfig loads the .env file when present, reads the configuration and
// installs the binary's logger. It exits the process when the configuration
// is invalid.
func LoadConfig(component string) (*config.Config, *applog.Logger) {
	// .env is for local development only
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(component, cfg.SlogLevel())
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error(),
			"error_type", applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err.Error(), "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// ConnectAMQP returns a broker client, or nil when AMQP is disabled or the
// broker cannot be reached.
func ConnectAMQP(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP disabled, fixed expenses materialize inline")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without broker", applog.FieldError, err.Error())
		return nil
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// Services bundles the domain services every binary builds the same way.
type Services struct {
	Resolver   *services.CategoryResolver
	Aggregator *services.PeriodAggregator
	Reports    *services.ReportService
	Budgets    *services.BudgetTracker
	Ledger     *services.LedgerService
	Recurring  *services.RecurringGenerator
}

// BuildServices wires the services over repo. client may be nil; a nil
// *amqp.Client is never passed on as a non-nil Publisher.
func BuildServices(repo *storage.SQLiteRepository, client *amqp.Client, cfg *config.Config) *Services {
	var publisher services.Publisher
	if client != nil {
		publisher = client
	}

	timeout := cfg.QueryTimeout
	resolver := services.NewCategoryResolver(repo, timeout)
	return &Services{
		Resolver:   resolver,
		Aggregator: services.NewPeriodAggregator(repo, timeout),
		Reports:    services.NewReportService(repo, timeout),
		Budgets:    services.NewBudgetTracker(repo, repo, resolver, timeout),
		Ledger:     services.NewLedgerService(repo, resolver, timeout),
		Recurring:  services.NewRecurringGenerator(repo, repo, resolver, publisher, cfg.RecurringConcurrency, timeout),
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has run.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup has finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
