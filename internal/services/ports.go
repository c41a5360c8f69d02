// Package services holds the finance engine: category resolution, period
// and yearly aggregation, budget tracking and fixed-expense generation.
// Services are stateless; every result is recomputed from the store.
package services

import (
	"context"
	"time"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/amqp"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/storage"
)

// DefaultQueryTimeout bounds every store call made by a service.
const DefaultQueryTimeout = 7 * time.Second

type CategoryStore interface {
	GetCategoryByID(ctx context.Context, owner, id string) (core.Category, error)
	GetCategoryByName(ctx context.Context, owner, name string) (core.Category, error)
}

type AggregateStore interface {
	SumByType(ctx context.Context, owner string, p core.Period) (storage.TypeTotals, error)
	SumByCategory(ctx context.Context, owner string, p core.Period, typ core.CategoryType) ([]storage.CategoryTotal, error)
	SumByMonth(ctx context.Context, owner string, year int) ([]storage.MonthTypeTotal, error)
	SumByWeekday(ctx context.Context, owner string, p core.Period) ([]storage.WeekdayTotal, error)
}

type BudgetStore interface {
	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, owner string, ym core.YearMonth) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, owner, id string) (int64, error)
}

type TemplateStore interface {
	CreateFixedExpense(ctx context.Context, f core.FixedExpenseTemplate) (core.FixedExpenseTemplate, error)
	GetFixedExpense(ctx context.Context, owner, id string) (core.FixedExpenseTemplate, error)
	ListFixedExpenses(ctx context.Context, owner string) ([]core.FixedExpenseTemplate, error)
	ListFixedExpensesForDays(ctx context.Context, days []int) ([]core.FixedExpenseTemplate, error)
	DeleteFixedExpense(ctx context.Context, owner, id string) (int64, error)
}

type TransactionStore interface {
	InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, bool, error)
}

// Publisher is the broker side of the recurring generator. A nil Publisher
// means no broker is configured.
type Publisher interface {
	PublishFixedExpenseCreated(ctx context.Context, templateID, owner, reference string) error
	PublishTransactionMaterialized(ctx context.Context, msg *amqp.TransactionMaterializedMessage) error
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, d)
}
