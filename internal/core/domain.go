package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

// FixedExpenseNoteSuffix marks transactions generated from a fixed-expense template.
const FixedExpenseNoteSuffix = " (fixed expense)"

// MaxNoteLength bounds a transaction note. A template note leaves room for
// FixedExpenseNoteSuffix so its occurrences always fit.
const (
	MaxNoteLength         = 500
	MaxTemplateNoteLength = MaxNoteLength - len(FixedExpenseNoteSuffix)
)

type (
	CategoryType string

	Category struct {
		ID        string
		Owner     string
		Name      string
		Type      CategoryType
		SortOrder int
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Transaction struct {
		ID           string
		Owner        string
		Amount       decimal.Decimal
		CategoryID   string
		CategoryName string       // display cache, category is authoritative
		CategoryType CategoryType // snapshot taken at creation time
		Date         string       // YYYY-MM-DD
		Note         string
		SourceKey    string // set only for materialized fixed expenses
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	Budget struct {
		ID        string
		Owner     string
		Category  string
		YearMonth YearMonth
		Limit     decimal.Decimal
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	FixedExpenseTemplate struct {
		ID         string
		Owner      string
		Amount     decimal.Decimal
		CategoryID string
		Day        int // 1-31
		Note       string
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}
)

var (
	ErrInvalidReference    = errors.New("invalid category reference")
	ErrMissingReference    = errors.New("missing category reference")
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDay          = errors.New("invalid day of month")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidPeriod       = errors.New("invalid period")
	ErrInvalidYearMonth    = errors.New("invalid year-month")
	ErrInvalidYear         = errors.New("invalid year")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrEmptyName           = errors.New("empty category name")
	ErrEmptyOwner          = errors.New("empty owner")
	ErrDuplicateCategory   = errors.New("category name already exists")
	ErrCategoryInUse       = errors.New("category type cannot change while transactions reference it")
	ErrTooLong             = errors.New("value too long")
)

// Valid reports whether t is one of the reportable category types.
func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("%w: category name (max 100 characters)", ErrTooLong)
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	if !t.Amount.IsPositive() || !FitsMinor(t.Amount) {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrMissingReference
	}
	if len(t.Note) > MaxNoteLength {
		return fmt.Errorf("%w: note (max %d characters)", ErrTooLong, MaxNoteLength)
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyName
	}
	if err := b.YearMonth.Validate(); err != nil {
		return err
	}
	if b.Limit.IsNegative() || !FitsMinor(b.Limit) {
		return ErrInvalidAmount
	}
	return nil
}

func (f FixedExpenseTemplate) Validate() error {
	if strings.TrimSpace(f.Owner) == "" {
		return ErrEmptyOwner
	}
	if !f.Amount.IsPositive() || !FitsMinor(f.Amount) {
		return ErrInvalidAmount
	}
	if f.Day < 1 || f.Day > 31 {
		return ErrInvalidDay
	}
	if strings.TrimSpace(f.CategoryID) == "" {
		return ErrMissingReference
	}
	if len(f.Note) > MaxTemplateNoteLength {
		return fmt.Errorf("%w: note (max %d characters)", ErrTooLong, MaxTemplateNoteLength)
	}
	return nil
}

// SourceKey is the idempotency key of the occurrence of f in ym.
func (f FixedExpenseTemplate) SourceKey(ym YearMonth) string {
	return f.ID + ":" + ym.String()
}
