package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// DefaultLookbackDays is used when WeeklyHabits gets an unsupported window.
const DefaultLookbackDays = 90

var (
	lookbackDays = map[int]bool{7: true, 30: true, 90: true, 180: true, 365: true}
	twelve       = decimal.NewFromInt(12)

	mondayFirst = [7]time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
)

// ReportService builds the yearly report and the weekly spending habits.
type ReportService struct {
	store   AggregateStore
	timeout time.Duration
}

func NewReportService(store AggregateStore, timeout time.Duration) *ReportService {
	return &ReportService{store: store, timeout: timeout}
}

// YearlyReport assembles the twelve-month series, the yearly summary and
// the per-category expense distribution of year.
func (s *ReportService) YearlyReport(ctx context.Context, owner string, year int) (core.YearlyReport, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.YearlyReport{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	months, err := s.store.SumByMonth(ctx, owner, year)
	if err != nil {
		return core.YearlyReport{}, fmt.Errorf("yearly report %d: monthly series: %w", year, err)
	}
	categories, err := s.store.SumByCategory(ctx, owner, core.YearWindow(year), core.Expense)
	if err != nil {
		return core.YearlyReport{}, fmt.Errorf("yearly report %d: categories: %w", year, err)
	}

	monthly := make([]core.MonthlyEntry, 12)
	for i := range monthly {
		monthly[i] = core.MonthlyEntry{Month: i + 1, Expense: decimal.Zero, Income: decimal.Zero, Net: decimal.Zero}
	}
	for _, m := range months {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		e := &monthly[m.Month-1]
		switch m.Type {
		case core.Income:
			e.Income = e.Income.Add(core.FromMinor(m.TotalCents))
		case core.Expense:
			e.Expense = e.Expense.Add(core.FromMinor(m.TotalCents))
		}
	}

	totalIncome, totalExpense := decimal.Zero, decimal.Zero
	for i := range monthly {
		monthly[i].Net = monthly[i].Income.Sub(monthly[i].Expense)
		totalIncome = totalIncome.Add(monthly[i].Income)
		totalExpense = totalExpense.Add(monthly[i].Expense)
	}

	peak, trough := peakAndTrough(monthly, totalExpense)

	byCategory := make([]core.CategoryShare, 0, len(categories))
	for _, c := range categories {
		total := core.FromMinor(c.TotalCents)
		byCategory = append(byCategory, core.CategoryShare{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Total:        total,
			Percent:      core.Percent(total, totalExpense),
			Count:        c.Count,
			AvgMonthly:   total.Div(twelve),
		})
	}

	return core.YearlyReport{
		Year: year,
		Summary: core.YearlySummary{
			TotalExpense:      totalExpense,
			TotalIncome:       totalIncome,
			Net:               totalIncome.Sub(totalExpense),
			AvgMonthlyExpense: totalExpense.Div(twelve),
			MaxExpenseMonth:   peak,
			MinExpenseMonth:   trough,
		},
		Monthly:    monthly,
		ByCategory: byCategory,
	}, nil
}

// peakAndTrough scans the series in month order; ties keep the earliest
// month. A year without expenses reports month 0 for both.
func peakAndTrough(monthly []core.MonthlyEntry, totalExpense decimal.Decimal) (core.MonthAmount, core.MonthAmount) {
	none := core.MonthAmount{Month: 0, Amount: decimal.Zero}
	if totalExpense.IsZero() || len(monthly) == 0 {
		return none, none
	}

	peak := core.MonthAmount{Month: monthly[0].Month, Amount: monthly[0].Expense}
	trough := peak
	for _, m := range monthly[1:] {
		if m.Expense.GreaterThan(peak.Amount) {
			peak = core.MonthAmount{Month: m.Month, Amount: m.Expense}
		}
		if m.Expense.LessThan(trough.Amount) {
			trough = core.MonthAmount{Month: m.Month, Amount: m.Expense}
		}
	}
	return peak, trough
}

// NormalizeLookback maps unsupported windows to DefaultLookbackDays.
func NormalizeLookback(days int) int {
	if lookbackDays[days] {
		return days
	}
	return DefaultLookbackDays
}

// WeeklyHabits sums expense spending per weekday over the days calendar
// days ending with now's day. The result always has seven entries, Monday first.
func (s *ReportService) WeeklyHabits(ctx context.Context, owner string, days int, now time.Time) ([]core.WeekdayAmount, error) {
	days = NormalizeLookback(days)
	p := core.LookbackPeriod(now, days)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.store.SumByWeekday(ctx, owner, p)
	if err != nil {
		return nil, fmt.Errorf("weekly habits %s..%s: %w", p.Start, p.End, err)
	}

	sums := make(map[time.Weekday]decimal.Decimal, 7)
	for _, r := range rows {
		wd := time.Weekday(r.Weekday)
		sums[wd] = sums[wd].Add(core.FromMinor(r.TotalCents))
	}

	out := make([]core.WeekdayAmount, 0, 7)
	for _, wd := range mondayFirst {
		amount, ok := sums[wd]
		if !ok {
			amount = decimal.Zero
		}
		out = append(out, core.WeekdayAmount{Weekday: wd.String(), Amount: amount})
	}
	return out, nil
}
