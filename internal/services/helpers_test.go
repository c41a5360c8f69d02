package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/amqp"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
	"github.com/ChongZhe001025/FinTrack-sub000/internal/storage"
)

type engine struct {
	repo     *storage.SQLiteRepository
	resolver *CategoryResolver
	agg      *PeriodAggregator
	reports  *ReportService
	budgets  *BudgetTracker
	ledger   *LedgerService
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	resolver := NewCategoryResolver(repo, 0)
	return &engine{
		repo:     repo,
		resolver: resolver,
		agg:      NewPeriodAggregator(repo, 0),
		reports:  NewReportService(repo, 0),
		budgets:  NewBudgetTracker(repo, repo, resolver, 0),
		ledger:   NewLedgerService(repo, resolver, 0),
	}
}

func (e *engine) category(t *testing.T, owner, name string, typ core.CategoryType) core.Category {
	t.Helper()
	c, err := e.ledger.CreateCategory(context.Background(), owner, name, typ, 0)
	if err != nil {
		t.Fatalf("CreateCategory(%s) error = %v", name, err)
	}
	return c
}

func (e *engine) spend(t *testing.T, owner string, c core.Category, amount, date string) core.Transaction {
	t.Helper()
	tx, err := e.ledger.CreateTransaction(context.Background(), owner, TransactionInput{
		Amount:     dec(amount),
		CategoryID: c.ID,
		Date:       date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction(%s %s) error = %v", amount, date, err)
	}
	return tx
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

type fakePublisher struct {
	mu           sync.Mutex
	created      []string
	materialized []*amqp.TransactionMaterializedMessage
	createdErr   error
}

func (f *fakePublisher) PublishFixedExpenseCreated(_ context.Context, templateID, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createdErr != nil {
		return f.createdErr
	}
	f.created = append(f.created, templateID)
	return nil
}

func (f *fakePublisher) PublishTransactionMaterialized(_ context.Context, msg *amqp.TransactionMaterializedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.materialized = append(f.materialized, msg)
	return nil
}
