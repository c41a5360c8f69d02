// Package sheets writes yearly reports to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

// Exporter writes one tab per (year, owner) into a single spreadsheet.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
	logger        *applog.Logger
}

// New creates an Exporter authenticated with a service account key.
func New(ctx context.Context, spreadsheetID, sheetBase string, credentialsJSON []byte, logger *applog.Logger) (*Exporter, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newExporter(svc, spreadsheetID, sheetBase, logger)
}

func newExporter(svc *gsheet.Service, spreadsheetID, sheetBase string, logger *applog.Logger) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Yearly Report"
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     strings.TrimSpace(sheetBase),
		logger:        logger.WithComponent(applog.ComponentSheets),
	}, nil
}

// SheetName is the tab a report is written to, e.g. "2025 Yearly Report - alice".
// The year always comes from the report, so each year gets its own tab.
func (e *Exporter) SheetName(year int, owner string) string {
	return fmt.Sprintf("%d %s - %s", year, e.sheetBase, owner)
}

// ExportYearlyReport replaces the owner's tab for the report's year with
// the report contents, creating the tab when needed. It returns the range
// written.
func (e *Exporter) ExportYearlyReport(ctx context.Context, owner string, report core.YearlyReport) (string, error) {
	sheet := e.SheetName(report.Year, owner)
	if err := e.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	all := quoteSheet(sheet) + "!A:Z"
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", all, err)
	}

	rows := ReportRows(report)
	vr := &gsheet.ValueRange{Values: rows}
	resp, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, quoteSheet(sheet)+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write %s: %w", sheet, err)
	}

	e.logger.InfoContext(ctx, "Yearly report exported",
		applog.FieldOwner, owner,
		applog.FieldYear, report.Year,
		applog.FieldOperation, applog.OpExport,
		"sheet", sheet,
		"rows", len(rows))
	return resp.UpdatedRange, nil
}

// ensureSheet adds the tab unless the spreadsheet already has it.
func (e *Exporter) ensureSheet(ctx context.Context, name string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet %s: %w", e.spreadsheetID, err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %q: %w", name, err)
	}
	e.logger.DebugContext(ctx, "Sheet created", "sheet", name)
	return nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

