package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/storage"
)

// PeriodAggregator computes totals, breakdowns and month comparisons over
// arbitrary half-open date windows. Category type decides income vs expense.
type PeriodAggregator struct {
	store   AggregateStore
	timeout time.Duration
}

func NewPeriodAggregator(store AggregateStore, timeout time.Duration) *PeriodAggregator {
	return &PeriodAggregator{store: store, timeout: timeout}
}

// Summarize returns the income and expense totals of p.
func (a *PeriodAggregator) Summarize(ctx context.Context, owner string, p core.Period) (core.PeriodTotals, error) {
	if err := p.Validate(); err != nil {
		return core.PeriodTotals{}, err
	}
	return a.totals(ctx, owner, p)
}

func (a *PeriodAggregator) totals(ctx context.Context, owner string, p core.Period) (core.PeriodTotals, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	tt, err := a.store.SumByType(ctx, owner, p)
	if err != nil {
		return core.PeriodTotals{}, fmt.Errorf("summarize %s..%s: %w", p.Start, p.End, err)
	}
	return core.PeriodTotals{
		Income:  core.FromMinor(tt.IncomeCents),
		Expense: core.FromMinor(tt.ExpenseCents),
	}, nil
}

// Breakdown returns expense totals per category, largest first.
func (a *PeriodAggregator) Breakdown(ctx context.Context, owner string, p core.Period) ([]core.CategoryAmount, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	rows, err := a.store.SumByCategory(ctx, owner, p, core.Expense)
	if err != nil {
		return nil, fmt.Errorf("breakdown %s..%s: %w", p.Start, p.End, err)
	}

	out := make([]core.CategoryAmount, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.CategoryAmount{Category: r.CategoryName, Amount: core.FromMinor(r.TotalCents)})
	}
	return out, nil
}

// CompareMonths pairs each expense category's spending in ym with the month
// before. Categories seen in either month appear; the missing side is zero.
func (a *PeriodAggregator) CompareMonths(ctx context.Context, owner string, ym core.YearMonth) ([]core.MonthComparison, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}

	current, err := a.expenseByCategory(ctx, owner, ym.Window())
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", ym, err)
	}
	previous, err := a.expenseByCategory(ctx, owner, ym.Prev().Window())
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", ym.Prev(), err)
	}

	byID := make(map[string]*core.MonthComparison, len(current)+len(previous))
	order := make([]string, 0, len(current)+len(previous))
	get := func(id, name string) *core.MonthComparison {
		mc, ok := byID[id]
		if !ok {
			mc = &core.MonthComparison{Category: name, Current: decimal.Zero, Previous: decimal.Zero}
			byID[id] = mc
			order = append(order, id)
		}
		return mc
	}
	for _, c := range current {
		get(c.CategoryID, c.CategoryName).Current = core.FromMinor(c.TotalCents)
	}
	for _, p := range previous {
		get(p.CategoryID, p.CategoryName).Previous = core.FromMinor(p.TotalCents)
	}

	out := make([]core.MonthComparison, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Current.Cmp(out[j].Current); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (a *PeriodAggregator) expenseByCategory(ctx context.Context, owner string, p core.Period) ([]storage.CategoryTotal, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()
	return a.store.SumByCategory(ctx, owner, p, core.Expense)
}

// Dashboard summarizes ym and its trends against the previous month.
func (a *PeriodAggregator) Dashboard(ctx context.Context, owner string, ym core.YearMonth) (core.DashboardSummary, error) {
	if err := ym.Validate(); err != nil {
		return core.DashboardSummary{}, err
	}

	cur, err := a.totals(ctx, owner, ym.Window())
	if err != nil {
		return core.DashboardSummary{}, err
	}
	prev, err := a.totals(ctx, owner, ym.Prev().Window())
	if err != nil {
		return core.DashboardSummary{}, err
	}

	balance := cur.Income.Sub(cur.Expense)
	prevBalance := prev.Income.Sub(prev.Expense)

	return core.DashboardSummary{
		TotalIncome:  cur.Income,
		TotalExpense: cur.Expense,
		Balance:      balance,
		IncomeTrend:  core.Trend(cur.Income, prev.Income),
		ExpenseTrend: core.Trend(cur.Expense, prev.Expense),
		BalanceTrend: core.Trend(balance, prevBalance),
		Month:        ym.String(),
	}, nil
}
