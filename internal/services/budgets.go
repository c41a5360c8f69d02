package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// BudgetTracker sets monthly category limits and reports how much of each
// has been spent.
type BudgetTracker struct {
	budgets  BudgetStore
	sums     AggregateStore
	resolver *CategoryResolver
	timeout  time.Duration
}

func NewBudgetTracker(budgets BudgetStore, sums AggregateStore, resolver *CategoryResolver, timeout time.Duration) *BudgetTracker {
	return &BudgetTracker{budgets: budgets, sums: sums, resolver: resolver, timeout: timeout}
}

// SetBudget creates or replaces the limit of (owner, category, yearMonth).
// The category name must resolve for the owner.
func (t *BudgetTracker) SetBudget(ctx context.Context, owner, category, yearMonth string, limit decimal.Decimal) (core.Budget, error) {
	ym, err := core.ParseYearMonth(yearMonth)
	if err != nil {
		return core.Budget{}, err
	}
	if limit.IsNegative() || !core.FitsMinor(limit) {
		return core.Budget{}, core.ErrInvalidAmount
	}

	cat, err := t.resolver.Resolve(ctx, owner, "", category)
	if err != nil {
		return core.Budget{}, err
	}

	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	return t.budgets.UpsertBudget(ctx, core.Budget{
		Owner:     owner,
		Category:  cat.Name,
		YearMonth: ym,
		Limit:     limit,
	})
}

// ListBudgets returns the raw budgets of ym.
func (t *BudgetTracker) ListBudgets(ctx context.Context, owner string, ym core.YearMonth) ([]core.Budget, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()
	return t.budgets.ListBudgets(ctx, owner, ym)
}

// BudgetStatus reports spending against every budget of ym. Only expense
// categories accumulate spending; budgets on income categories and on
// categories that no longer exist report zero.
func (t *BudgetTracker) BudgetStatus(ctx context.Context, owner string, ym core.YearMonth) ([]core.BudgetStatus, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	budgets, err := t.budgets.ListBudgets(ctx, owner, ym)
	if err != nil {
		return nil, fmt.Errorf("budget status %s: %w", ym, err)
	}
	out := make([]core.BudgetStatus, 0, len(budgets))
	if len(budgets) == 0 {
		return out, nil
	}

	spending, err := t.sums.SumByCategory(ctx, owner, ym.Window(), core.Expense)
	if err != nil {
		return nil, fmt.Errorf("budget status %s: spending: %w", ym, err)
	}
	spentByName := make(map[string]int64, len(spending))
	for _, s := range spending {
		spentByName[s.CategoryName] = s.TotalCents
	}

	for _, b := range budgets {
		spent := core.FromMinor(spentByName[b.Category])
		out = append(out, core.BudgetStatus{
			ID:         b.ID,
			Category:   b.Category,
			Limit:      b.Limit,
			Spent:      spent,
			Percentage: core.Percent(spent, b.Limit),
			YearMonth:  ym.String(),
		})
	}
	return out, nil
}

// DeleteBudget removes a budget. Missing budgets are not an error; the
// returned count is zero.
func (t *BudgetTracker) DeleteBudget(ctx context.Context, owner, id string) (int64, error) {
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	n, err := t.budgets.DeleteBudget(ctx, owner, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		slog.DebugContext(ctx, "Budget already absent", "id", id, "owner", owner)
	}
	return n, nil
}
