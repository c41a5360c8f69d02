package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/cli"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

func main() {
	cfg, logger := cli.LoadConfig("fintrack-admin")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	svc := cli.BuildServices(repo, nil, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	admin := &cli.Admin{
		Credentials: repo,
		Ledger:      svc.Ledger,
		Recurring:   svc.Recurring,
		In:          os.Stdin,
		Out:         os.Stdout,
	}
	err := admin.Run(ctx, os.Args[1:])
	stop()
	repo.Close()

	switch {
	case errors.Is(err, cli.ErrUsage):
		logger.Error("Invalid command line", applog.FieldError, err.Error())
		os.Exit(2)
	case err != nil:
		logger.Error("Command failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
}
