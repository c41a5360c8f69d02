package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/cli"
	apphttp "github.com/ChongZhe001025/FinTrack-sub000/internal/http"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

func main() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, logger := cli.LoadConfig("fintrack")
	logger.Info("Starting fintrack server")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	svc := cli.BuildServices(repo, amqpClient, cfg)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Aggregator:  svc.Aggregator,
		Reports:     svc.Reports,
		Budgets:     svc.Budgets,
		Ledger:      svc.Ledger,
		Recurring:   svc.Recurring,
		Credentials: repo,
		Store:       repo,
	}, cfg.RateLimitPerMinute, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Listening",
		"port", cfg.Port,
		"sqlite_db", cfg.SQLiteDBPath,
		"amqp", amqpClient != nil,
		"rate_limit_per_minute", cfg.RateLimitPerMinute)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
