package main

import (
	"context"
	"errors"
	"time"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/cli"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/worker"
)

func main() {
	cfg, logger := cli.LoadConfig("recurring-worker")
	logger.Info("Starting recurring-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	svc := cli.BuildServices(repo, amqpClient, cfg)
	w := worker.NewFixedExpenseWorker(svc.Recurring, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, w.Stop)

	// catch up on anything missed while the worker was down
	logger.Info("Running initial fixed expense pass")
	_, _ = w.RunOnce(ctx)

	if err := w.Start(ctx, cfg.CronSpec); err != nil {
		logger.Error("Failed to schedule fixed expense pass", applog.FieldError, err.Error(), "cron_spec", cfg.CronSpec)
		return
	}

	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeFixedExpenseCreated(ctx, w.HandleFixedExpenseCreated)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", applog.FieldError, err.Error())
			}
		}()
		logger.Info("Consuming fixed expense messages", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Skipping AMQP message consumption, no broker configured")
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Recurring-worker shutdown complete")
}
