package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

func sampleReport() core.YearlyReport {
	monthly := make([]core.MonthlyEntry, 12)
	for i := range monthly {
		monthly[i] = core.MonthlyEntry{Month: i + 1, Expense: decimal.Zero, Income: decimal.Zero, Net: decimal.Zero}
	}
	monthly[2] = core.MonthlyEntry{Month: 3, Expense: decimal.NewFromInt(800), Income: decimal.NewFromInt(3000), Net: decimal.NewFromInt(2200)}
	return core.YearlyReport{
		Year: 2025,
		Summary: core.YearlySummary{
			TotalExpense:      decimal.NewFromInt(800),
			TotalIncome:       decimal.NewFromInt(3000),
			Net:               decimal.NewFromInt(2200),
			AvgMonthlyExpense: decimal.RequireFromString("66.6666666667"),
			MaxExpenseMonth:   core.MonthAmount{Month: 3, Amount: decimal.NewFromInt(800)},
			MinExpenseMonth:   core.MonthAmount{Month: 1, Amount: decimal.Zero},
		},
		Monthly: monthly,
		ByCategory: []core.CategoryShare{{
			CategoryID: "c1", CategoryName: "Rent", Total: decimal.NewFromInt(800),
			Percent: decimal.NewFromInt(100), Count: 1, AvgMonthly: decimal.RequireFromString("66.67"),
		}},
	}
}

func TestReportRows(t *testing.T) {
	rows := ReportRows(sampleReport())

	// summary block, blank, header, 12 months, blank, header, one category
	if want := 10 + 12 + 2 + 1; len(rows) != want {
		t.Fatalf("len(rows) = %d, want %d", len(rows), want)
	}
	if rows[0][1] != 2025 {
		t.Errorf("year row = %v", rows[0])
	}
	if rows[5][1] != "66.67" {
		t.Errorf("average row = %v, want 66.67", rows[5])
	}
	if rows[6][1] != "March" || rows[6][2] != "800.00" {
		t.Errorf("peak row = %v", rows[6])
	}
	if rows[12][0] != "March" || rows[12][3] != "2200.00" {
		t.Errorf("March row = %v", rows[12])
	}
	last := rows[len(rows)-1]
	if last[0] != "Rent" || last[2] != "100.00" || last[3] != int64(1) {
		t.Errorf("category row = %v", last)
	}
}

func TestReportRows_EmptyYear(t *testing.T) {
	r := sampleReport()
	r.Summary.MaxExpenseMonth = core.MonthAmount{Amount: decimal.Zero}
	r.ByCategory = nil

	rows := ReportRows(r)
	if rows[6][1] != "" {
		t.Errorf("peak month of an empty year = %q, want blank", rows[6][1])
	}
	if header := rows[len(rows)-1]; header[0] != "Category" {
		t.Errorf("last row = %v, want the category header", header)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		base  string
		year  int
		owner string
		want  string
	}{
		{"Yearly Report", 2025, "alice", "2025 Yearly Report - alice"},
		{"  Report ", 2025, "bob", "2025 Report - bob"},
		{"2024 Report", 2024, "alice", "2024 2024 Report - alice"},
		{"2024 Report", 2025, "alice", "2025 2024 Report - alice"},
	}
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	for _, tt := range tests {
		e, err := newExporter(nil, "sheet-id", tt.base, logger)
		if err != nil {
			t.Fatalf("newExporter() error = %v", err)
		}
		if got := e.SheetName(tt.year, tt.owner); got != tt.want {
			t.Errorf("SheetName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

// fakeSheets records the calls the exporter makes against the Sheets REST API.
type fakeSheets struct {
	mu     sync.Mutex
	titles []string
	calls  []string
	values [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, title := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "add")
		var req gsheet.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.titles = append(f.titles, req.Requests[0].AddSheet.Properties.Title)
		json.NewEncoder(w).Encode(map[string]any{})
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		json.NewEncoder(w).Encode(map[string]any{})
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		var vr gsheet.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		f.values = vr.Values
		json.NewEncoder(w).Encode(map[string]any{"updatedRange": "A1:E27"})
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newFakeExporter(t *testing.T, fake *fakeSheets) *Exporter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	e, err := newExporter(svc, "sheet-id", "Yearly Report", logger)
	if err != nil {
		t.Fatalf("newExporter() error = %v", err)
	}
	return e
}

func TestExportYearlyReport(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Sheet1"}}
	e := newFakeExporter(t, fake)

	rng, err := e.ExportYearlyReport(context.Background(), "alice", sampleReport())
	if err != nil {
		t.Fatalf("ExportYearlyReport() error = %v", err)
	}
	if rng != "A1:E27" {
		t.Errorf("range = %q", rng)
	}
	if got := strings.Join(fake.calls, ","); got != "get,add,clear,update" {
		t.Errorf("calls = %s", got)
	}
	if fake.titles[1] != "2025 Yearly Report - alice" {
		t.Errorf("added sheet = %q", fake.titles[1])
	}
	if len(fake.values) != len(ReportRows(sampleReport())) {
		t.Errorf("wrote %d rows", len(fake.values))
	}

	// a second export reuses the tab
	fake.calls = nil
	if _, err := e.ExportYearlyReport(context.Background(), "alice", sampleReport()); err != nil {
		t.Fatalf("ExportYearlyReport() error = %v", err)
	}
	if got := strings.Join(fake.calls, ","); got != "get,clear,update" {
		t.Errorf("calls on re-export = %s", got)
	}
}

func TestExportYearlyReport_YearsGetOwnTabs(t *testing.T) {
	fake := &fakeSheets{}
	e := newFakeExporter(t, fake)
	e.sheetBase = "2024 Report"

	for _, year := range []int{2024, 2025} {
		r := sampleReport()
		r.Year = year
		if _, err := e.ExportYearlyReport(context.Background(), "alice", r); err != nil {
			t.Fatalf("ExportYearlyReport(%d) error = %v", year, err)
		}
	}
	if len(fake.titles) != 2 || fake.titles[0] == fake.titles[1] {
		t.Errorf("tabs = %q, want one per year", fake.titles)
	}
}

func TestNewExporter_Validation(t *testing.T) {
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	if _, err := newExporter(nil, " ", "Report", logger); err == nil {
		t.Error("newExporter() accepted an empty spreadsheet id")
	}
	if _, err := New(context.Background(), "id", "Report", nil, logger); err == nil {
		t.Error("New() accepted empty credentials")
	}
}
