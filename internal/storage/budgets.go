package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// UpsertBudget creates the budget for (owner, category, year-month) or
// replaces the limit of the one already there.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	now := r.timestamp()
	ym := b.YearMonth.String()
	limit := core.ToMinor(b.Limit)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var id, createdAt string
		err := tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM budgets WHERE owner = ? AND category = ? AND year_month = ?
			 ORDER BY created_at LIMIT 1`,
			b.Owner, b.Category, ym).Scan(&id, &createdAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			b.ID = newID()
			b.CreatedAt = parseTime(now)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO budgets (id, owner, category, year_month, limit_cents, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				b.ID, b.Owner, b.Category, ym, limit, now, now)
			if err != nil {
				return fmt.Errorf("insert budget: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find budget: %w", err)
		default:
			b.ID = id
			b.CreatedAt = parseTime(createdAt)
			_, err = tx.ExecContext(ctx,
				`UPDATE budgets SET limit_cents = ?, updated_at = ? WHERE id = ?`, limit, now, id)
			if err != nil {
				return fmt.Errorf("update budget: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}

	b.UpdatedAt = parseTime(now)
	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID, "owner", b.Owner, "category", b.Category, "year_month", ym, "limit", b.Limit.String())
	return b, nil
}

// ListBudgets returns the owner's budgets for ym ordered by category.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner string, ym core.YearMonth) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, year_month, limit_cents, created_at, updated_at
		 FROM budgets WHERE owner = ? AND year_month = ? ORDER BY category`, owner, ym.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b                    core.Budget
			ymStr                string
			limit                int64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&b.ID, &b.Owner, &b.Category, &ymStr, &limit, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.YearMonth, err = core.ParseYearMonth(ymStr); err != nil {
			return nil, fmt.Errorf("decode budget %s: %w", b.ID, err)
		}
		b.Limit = core.FromMinor(limit)
		b.CreatedAt = parseTime(createdAt)
		b.UpdatedAt = parseTime(updatedAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteBudget removes the owner's budget and reports how many rows went away.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, owner, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return 0, fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	slog.InfoContext(ctx, "Budget delete", "id", id, "owner", owner, "deleted", n)
	return n, nil
}
