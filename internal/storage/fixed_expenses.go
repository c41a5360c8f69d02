package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

const fixedExpenseColumns = `id, owner, amount_cents, category_id, day, note, created_at, updated_at`

func scanFixedExpense(row rowScanner) (core.FixedExpenseTemplate, error) {
	var (
		f                    core.FixedExpenseTemplate
		cents                int64
		createdAt, updatedAt string
	)
	if err := row.Scan(&f.ID, &f.Owner, &cents, &f.CategoryID, &f.Day, &f.Note, &createdAt, &updatedAt); err != nil {
		return core.FixedExpenseTemplate{}, err
	}
	f.Amount = core.FromMinor(cents)
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return f, nil
}

func (r *SQLiteRepository) CreateFixedExpense(ctx context.Context, f core.FixedExpenseTemplate) (core.FixedExpenseTemplate, error) {
	if err := f.Validate(); err != nil {
		return core.FixedExpenseTemplate{}, err
	}
	f.ID = newID()
	now := r.timestamp()
	f.CreatedAt = parseTime(now)
	f.UpdatedAt = f.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fixed_expenses (`+fixedExpenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Owner, core.ToMinor(f.Amount), f.CategoryID, f.Day, f.Note, now, now)
	if err != nil {
		return core.FixedExpenseTemplate{}, fmt.Errorf("insert fixed expense: %w", err)
	}

	slog.InfoContext(ctx, "Fixed expense template saved",
		"id", f.ID, "owner", f.Owner, "day", f.Day, "amount", f.Amount.String())
	return f, nil
}

func (r *SQLiteRepository) GetFixedExpense(ctx context.Context, owner, id string) (core.FixedExpenseTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE owner = ? AND id = ?`, owner, id)
	f, err := scanFixedExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FixedExpenseTemplate{}, fmt.Errorf("fixed expense %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.FixedExpenseTemplate{}, fmt.Errorf("get fixed expense: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) ListFixedExpenses(ctx context.Context, owner string) ([]core.FixedExpenseTemplate, error) {
	return r.queryFixedExpenses(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE owner = ? ORDER BY day, created_at`, owner)
}

// ListFixedExpensesForDays returns every owner's templates scheduled on one
// of days. Used only by the scheduler pass.
func (r *SQLiteRepository) ListFixedExpensesForDays(ctx context.Context, days []int) ([]core.FixedExpenseTemplate, error) {
	if len(days) == 0 {
		return nil, nil
	}
	placeholders := "?"
	args := []any{days[0]}
	for _, d := range days[1:] {
		placeholders += ", ?"
		args = append(args, d)
	}
	return r.queryFixedExpenses(ctx,
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE day IN (`+placeholders+`) ORDER BY owner, created_at`,
		args...)
}

func (r *SQLiteRepository) queryFixedExpenses(ctx context.Context, query string, args ...any) ([]core.FixedExpenseTemplate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	defer rows.Close()

	var out []core.FixedExpenseTemplate
	for rows.Next() {
		f, err := scanFixedExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fixed expense: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFixedExpense removes a template. Transactions it generated stay.
func (r *SQLiteRepository) DeleteFixedExpense(ctx context.Context, owner, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_expenses WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return 0, fmt.Errorf("delete fixed expense: %w", err)
	}
	return res.RowsAffected()
}
