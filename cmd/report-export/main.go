package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/cli"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/export/sheets"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "report year")
	owner := flag.String("owner", "", "owner whose report is exported")
	flag.Parse()

	cfg, logger := cli.LoadConfig("report-export")

	if *owner == "" {
		logger.Error("Missing -owner flag")
		os.Exit(2)
	}
	if err := core.ValidateYear(*year); err != nil {
		logger.Error("Invalid -year flag", applog.FieldError, err.Error(), "year", *year)
		os.Exit(2)
	}
	if err := cfg.ValidateSheetsExport(); err != nil {
		logger.Error("Sheets export is not configured", applog.FieldError, err.Error(),
			"error_type", applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	creds, err := cfg.ServiceAccountCredentials()
	if err != nil {
		logger.Error("Failed to read service account credentials", applog.FieldError, err.Error())
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()
	svc := cli.BuildServices(repo, nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exporter, err := sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet, creds, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	report, err := svc.Reports.YearlyReport(ctx, *owner, *year)
	if err != nil {
		logger.Error("Failed to build yearly report", applog.FieldError, err.Error(), "owner", *owner, "year", *year)
		os.Exit(1)
	}

	updated, err := exporter.ExportYearlyReport(ctx, *owner, report)
	if err != nil {
		logger.Error("Export failed", applog.FieldError, err.Error(), "owner", *owner, "year", *year)
		os.Exit(1)
	}
	logger.Info("Yearly report exported", "owner", *owner, "year", *year, "range", updated)
}
