package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCategoryValidate(t *testing.T) {
	good := Category{Owner: "alice", Name: "Food", Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		c    Category
		want error
	}{
		{Category{Owner: "", Name: "Food", Type: Expense}, ErrEmptyOwner},
		{Category{Owner: "alice", Name: "  ", Type: Expense}, ErrEmptyName},
		{Category{Owner: "alice", Name: "Food", Type: "transfer"}, ErrInvalidCategoryType},
	}
	for i, tc := range cases {
		if err := tc.c.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Owner:      "alice",
		Amount:     decimal.RequireFromString("12.50"),
		CategoryID: "c1",
		Date:       "2025-06-03",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Owner: "", Amount: decimal.NewFromInt(1), CategoryID: "c1", Date: "2025-06-03"},
		{Owner: "alice", Amount: decimal.Zero, CategoryID: "c1", Date: "2025-06-03"},
		{Owner: "alice", Amount: decimal.NewFromInt(-3), CategoryID: "c1", Date: "2025-06-03"},
		{Owner: "alice", Amount: decimal.NewFromInt(1), CategoryID: "", Date: "2025-06-03"},
		{Owner: "alice", Amount: decimal.NewFromInt(1), CategoryID: "c1", Date: "2025-6-3"},
		{Owner: "alice", Amount: decimal.NewFromInt(1), CategoryID: "c1", Date: "2025-02-30"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFixedExpenseTemplateValidate(t *testing.T) {
	tmpl := FixedExpenseTemplate{Owner: "alice", Amount: decimal.NewFromInt(30), CategoryID: "c1", Day: 31}
	if err := tmpl.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, day := range []int{0, 32, -1} {
		tmpl.Day = day
		if err := tmpl.Validate(); !errors.Is(err, ErrInvalidDay) {
			t.Fatalf("day %d: expected ErrInvalidDay, got %v", day, err)
		}
	}

	tmpl.Day = 1
	tmpl.Note = strings.Repeat("n", MaxTemplateNoteLength)
	if err := tmpl.Validate(); err != nil {
		t.Fatalf("note at the limit: expected ok, got %v", err)
	}
	// the generated transaction note must still fit
	tx := Transaction{Owner: "alice", Amount: tmpl.Amount, CategoryID: "c1", Date: "2025-06-01", Note: tmpl.Note + FixedExpenseNoteSuffix}
	if err := tx.Validate(); err != nil {
		t.Fatalf("materialized note: expected ok, got %v", err)
	}
	tmpl.Note += "n"
	if err := tmpl.Validate(); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{Owner: "alice", Category: "Food", YearMonth: YearMonth{2025, 6}, Limit: decimal.NewFromInt(600)}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	b.Limit = decimal.Zero
	if err := b.Validate(); err != nil {
		t.Fatalf("zero limit should be accepted, got %v", err)
	}
	b.Limit = decimal.NewFromInt(-1)
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	b.Limit = decimal.RequireFromString("100000000000000000000")
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("overflowing limit: expected ErrInvalidAmount, got %v", err)
	}
	b.Limit = decimal.NewFromInt(1)
	b.YearMonth = YearMonth{2025, 13}
	if err := b.Validate(); !errors.Is(err, ErrInvalidYearMonth) {
		t.Fatalf("expected ErrInvalidYearMonth, got %v", err)
	}
}

func TestSourceKey(t *testing.T) {
	tmpl := FixedExpenseTemplate{ID: "t1"}
	if got := tmpl.SourceKey(YearMonth{2025, 4}); got != "t1:2025-04" {
		t.Fatalf("unexpected source key %q", got)
	}
}
