package storage

import (
	"context"
	"fmt"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// Every aggregation runs the same pipeline: match the owner's transactions
// inside the half-open date window, look up the authoritative category on
// (owner, category_id), keep only income/expense categories, then group.
// Transactions with a dangling category drop out at the join.
const matchLookup = `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id AND c.owner = t.owner
	WHERE t.owner = ? AND t.date >= ? AND t.date < ? AND c.type IN ('income', 'expense')`

// TypeTotals holds the income and expense sums of a window in cents.
type TypeTotals struct {
	IncomeCents  int64
	ExpenseCents int64
}

// CategoryTotal is one category's group in a window.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Type         core.CategoryType
	TotalCents   int64
	Count        int64
}

// MonthTypeTotal is the sum of one category type in one month of a year.
type MonthTypeTotal struct {
	Month      int
	Type       core.CategoryType
	TotalCents int64
}

// WeekdayTotal is a sum keyed by SQLite weekday (0 = Sunday).
type WeekdayTotal struct {
	Weekday    int
	TotalCents int64
}

// SumByType groups the window by category type.
func (r *SQLiteRepository) SumByType(ctx context.Context, owner string, p core.Period) (TypeTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.type, SUM(t.amount_cents)`+matchLookup+` GROUP BY c.type`,
		owner, p.Start, p.End)
	if err != nil {
		return TypeTotals{}, fmt.Errorf("sum by type: %w", err)
	}
	defer rows.Close()

	var out TypeTotals
	for rows.Next() {
		var (
			typ   string
			total int64
		)
		if err := rows.Scan(&typ, &total); err != nil {
			return TypeTotals{}, fmt.Errorf("scan type total: %w", err)
		}
		switch core.CategoryType(typ) {
		case core.Income:
			out.IncomeCents = total
		case core.Expense:
			out.ExpenseCents = total
		}
	}
	if err := rows.Err(); err != nil {
		return TypeTotals{}, fmt.Errorf("sum by type: %w", err)
	}
	return out, nil
}

// SumByCategory groups the window by category, restricted to typ, largest
// total first.
func (r *SQLiteRepository) SumByCategory(ctx context.Context, owner string, p core.Period, typ core.CategoryType) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.type, SUM(t.amount_cents) AS total, COUNT(*)`+matchLookup+`
		 AND c.type = ?
		 GROUP BY c.id, c.name, c.type
		 ORDER BY total DESC, c.name`,
		owner, p.Start, p.End, string(typ))
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var (
			ct      CategoryTotal
			typeStr string
		)
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &typeStr, &ct.TotalCents, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Type = core.CategoryType(typeStr)
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	return out, nil
}

// SumByMonth groups a year window by month and category type. Months with
// no activity are absent.
func (r *SQLiteRepository) SumByMonth(ctx context.Context, owner string, year int) ([]MonthTypeTotal, error) {
	p := core.YearWindow(year)
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(substr(t.date, 6, 2) AS INTEGER) AS month, c.type, SUM(t.amount_cents)`+matchLookup+`
		 GROUP BY month, c.type
		 ORDER BY month`,
		owner, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("sum by month: %w", err)
	}
	defer rows.Close()

	var out []MonthTypeTotal
	for rows.Next() {
		var (
			mt  MonthTypeTotal
			typ string
		)
		if err := rows.Scan(&mt.Month, &typ, &mt.TotalCents); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		mt.Type = core.CategoryType(typ)
		out = append(out, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum by month: %w", err)
	}
	return out, nil
}

// SumByWeekday groups the expense transactions of the window by weekday of
// their date.
func (r *SQLiteRepository) SumByWeekday(ctx context.Context, owner string, p core.Period) ([]WeekdayTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(strftime('%w', t.date) AS INTEGER) AS weekday, SUM(t.amount_cents)`+matchLookup+`
		 AND c.type = 'expense'
		 GROUP BY weekday`,
		owner, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("sum by weekday: %w", err)
	}
	defer rows.Close()

	var out []WeekdayTotal
	for rows.Next() {
		var wt WeekdayTotal
		if err := rows.Scan(&wt.Weekday, &wt.TotalCents); err != nil {
			return nil, fmt.Errorf("scan weekday total: %w", err)
		}
		out = append(out, wt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum by weekday: %w", err)
	}
	return out, nil
}
