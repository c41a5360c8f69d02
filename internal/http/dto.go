package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

type categoryJSON struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      core.CategoryType `json:"type"`
	SortOrder int               `json:"sortOrder"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type transactionJSON struct {
	ID           string            `json:"id"`
	Amount       decimal.Decimal   `json:"amount"`
	CategoryID   string            `json:"categoryId"`
	CategoryName string            `json:"categoryName"`
	Type         core.CategoryType `json:"type"`
	Date         string            `json:"date"`
	Note         string            `json:"note"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type budgetJSON struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	YearMonth string          `json:"yearMonth"`
	Limit     decimal.Decimal `json:"limit"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type templateJSON struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId"`
	Day        int             `json:"day"`
	Note       string          `json:"note"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		Amount:       t.Amount,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		Type:         t.CategoryType,
		Date:         t.Date,
		Note:         t.Note,
		CreatedAt:    t.CreatedAt,
	}
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:        b.ID,
		Category:  b.Category,
		YearMonth: b.YearMonth.String(),
		Limit:     b.Limit,
		UpdatedAt: b.UpdatedAt,
	}
}

func toTemplateJSON(f core.FixedExpenseTemplate) templateJSON {
	return templateJSON{
		ID:         f.ID,
		Amount:     f.Amount,
		CategoryID: f.CategoryID,
		Day:        f.Day,
		Note:       f.Note,
		CreatedAt:  f.CreatedAt,
	}
}

// mapSlice converts a list, never yielding nil so empty lists encode as [].
func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// Request bodies.

type categoryRequest struct {
	Name      string            `json:"name"`
	Type      core.CategoryType `json:"type"`
	SortOrder int               `json:"sortOrder"`
}

type categoryPatchRequest struct {
	Name      *string            `json:"name"`
	Type      *core.CategoryType `json:"type"`
	SortOrder *int               `json:"sortOrder"`
}

type transactionRequest struct {
	Amount     amountField `json:"amount"`
	CategoryID string      `json:"categoryId"`
	Category   string      `json:"category"`
	Date       string      `json:"date"`
	Note       string      `json:"note"`
}

type budgetRequest struct {
	Category  string      `json:"category"`
	YearMonth string      `json:"yearMonth"`
	Limit     amountField `json:"limit"`
}

type templateRequest struct {
	Amount     amountField `json:"amount"`
	CategoryID string      `json:"categoryId"`
	Day        int         `json:"day"`
	Note       string      `json:"note"`
}
