package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

func TestLedgerService_Categories(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	food, err := e.ledger.CreateCategory(ctx, "alice", "  Food ", core.Expense, 2)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if food.Name != "Food" {
		t.Errorf("Name = %q, want trimmed", food.Name)
	}
	if _, err := e.ledger.CreateCategory(ctx, "alice", "Salary", core.Income, 1); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	// same name for another owner is fine
	if _, err := e.ledger.CreateCategory(ctx, "bob", "Food", core.Expense, 0); err != nil {
		t.Fatalf("CreateCategory(bob) error = %v", err)
	}

	tests := []struct {
		name    string
		catName string
		typ     core.CategoryType
		wantErr error
	}{
		{"duplicate", "Food", core.Expense, core.ErrDuplicateCategory},
		{"empty name", "   ", core.Expense, core.ErrEmptyName},
		{"unknown type", "Gifts", core.CategoryType("transfer"), core.ErrInvalidCategoryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.CreateCategory(ctx, "alice", tt.catName, tt.typ, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateCategory() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	list, err := e.ledger.ListCategories(ctx, "alice")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "Salary" || list[1].Name != "Food" {
		t.Errorf("ListCategories() = %+v, want Salary then Food by sort order", list)
	}
}

func TestLedgerService_UpdateCategory(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	food := e.category(t, "alice", "Food", core.Expense)
	e.category(t, "alice", "Rent", core.Expense)
	e.spend(t, "alice", food, "12.50", "2025-06-02")

	t.Run("rename reaches transactions", func(t *testing.T) {
		name := "Groceries"
		got, err := e.ledger.UpdateCategory(ctx, "alice", food.ID, CategoryPatch{Name: &name})
		if err != nil {
			t.Fatalf("UpdateCategory() error = %v", err)
		}
		if got.Name != "Groceries" || got.Type != core.Expense {
			t.Errorf("UpdateCategory() = %+v", got)
		}
		txs := e.transactions(t, "alice", core.YearMonth{Year: 2025, Month: 6}.Window())
		if len(txs) != 1 || txs[0].CategoryName != "Groceries" {
			t.Errorf("transactions = %+v, want category name Groceries", txs)
		}
	})

	t.Run("rename onto existing name", func(t *testing.T) {
		name := "Rent"
		_, err := e.ledger.UpdateCategory(ctx, "alice", food.ID, CategoryPatch{Name: &name})
		if !errors.Is(err, core.ErrDuplicateCategory) {
			t.Errorf("UpdateCategory() error = %v, want ErrDuplicateCategory", err)
		}
	})

	t.Run("type change refused while referenced", func(t *testing.T) {
		income := core.Income
		_, err := e.ledger.UpdateCategory(ctx, "alice", food.ID, CategoryPatch{Type: &income})
		if !errors.Is(err, core.ErrCategoryInUse) {
			t.Errorf("UpdateCategory() error = %v, want ErrCategoryInUse", err)
		}
	})

	t.Run("sort order only", func(t *testing.T) {
		order := 9
		got, err := e.ledger.UpdateCategory(ctx, "alice", food.ID, CategoryPatch{SortOrder: &order})
		if err != nil {
			t.Fatalf("UpdateCategory() error = %v", err)
		}
		if got.SortOrder != 9 || got.Name != "Groceries" {
			t.Errorf("UpdateCategory() = %+v", got)
		}
	})

	t.Run("other owner", func(t *testing.T) {
		name := "Mine"
		_, err := e.ledger.UpdateCategory(ctx, "bob", food.ID, CategoryPatch{Name: &name})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("UpdateCategory() error = %v, want ErrNotFound", err)
		}
	})
}

func TestLedgerService_Transactions(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	food := e.category(t, "alice", "Food", core.Expense)

	t.Run("by category name", func(t *testing.T) {
		tx, err := e.ledger.CreateTransaction(ctx, "alice", TransactionInput{
			Amount: dec("3.20"), CategoryName: "Food", Date: "2025-06-02", Note: " coffee ",
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
		if tx.CategoryID != food.ID || tx.CategoryType != core.Expense || tx.Note != "coffee" {
			t.Errorf("CreateTransaction() = %+v", tx)
		}
	})

	tests := []struct {
		name    string
		in      TransactionInput
		wantErr error
	}{
		{"zero amount", TransactionInput{Amount: dec("0"), CategoryID: food.ID, Date: "2025-06-02"}, core.ErrInvalidAmount},
		{"negative amount", TransactionInput{Amount: dec("-4"), CategoryID: food.ID, Date: "2025-06-02"}, core.ErrInvalidAmount},
		{"bad date", TransactionInput{Amount: dec("4"), CategoryID: food.ID, Date: "2025-02-30"}, core.ErrInvalidDate},
		{"no category", TransactionInput{Amount: dec("4"), Date: "2025-06-02"}, core.ErrMissingReference},
		{"unknown category", TransactionInput{Amount: dec("4"), CategoryName: "Travel", Date: "2025-06-02"}, core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.CreateTransaction(ctx, "alice", tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("list and delete", func(t *testing.T) {
		tx := e.spend(t, "alice", food, "8", "2025-06-30")
		june := core.YearMonth{Year: 2025, Month: 6}.Window()
		txs := e.transactions(t, "alice", june)
		if len(txs) != 2 || txs[0].ID != tx.ID {
			t.Fatalf("ListTransactions() = %+v, want newest first", txs)
		}

		if n, err := e.ledger.DeleteTransaction(ctx, "bob", tx.ID); err != nil || n != 0 {
			t.Errorf("DeleteTransaction(other owner) = %d, %v", n, err)
		}
		if n, err := e.ledger.DeleteTransaction(ctx, "alice", tx.ID); err != nil || n != 1 {
			t.Errorf("DeleteTransaction() = %d, %v", n, err)
		}
		if txs := e.transactions(t, "alice", june); len(txs) != 1 {
			t.Errorf("ListTransactions() after delete = %d, want 1", len(txs))
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := e.ledger.ListTransactions(ctx, "alice", core.Period{Start: "2025-06-10", End: "2025-06-10"})
		if !errors.Is(err, core.ErrInvalidPeriod) {
			t.Errorf("ListTransactions() error = %v, want ErrInvalidPeriod", err)
		}
	})
}
