package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

const transactionColumns = `id, owner, amount_cents, category_id, category_name, category_type, date, note, source_key, created_at, updated_at`

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                    core.Transaction
		cents                int64
		typ                  string
		sourceKey            sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.Owner, &cents, &t.CategoryID, &t.CategoryName, &typ,
		&t.Date, &t.Note, &sourceKey, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.FromMinor(cents)
	t.CategoryType = core.CategoryType(typ)
	t.SourceKey = sourceKey.String
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// InsertTransaction stores t. When t carries a source key that was already
// used, nothing is written and the existing transaction is returned with
// created == false.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, bool, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, false, err
	}
	t.ID = newID()
	now := r.timestamp()
	t.CreatedAt = parseTime(now)
	t.UpdatedAt = t.CreatedAt

	var sourceKey sql.NullString
	if t.SourceKey != "" {
		sourceKey = sql.NullString{String: t.SourceKey, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_key) WHERE source_key IS NOT NULL DO NOTHING`,
		t.ID, t.Owner, core.ToMinor(t.Amount), t.CategoryID, t.CategoryName, string(t.CategoryType),
		t.Date, t.Note, sourceKey, now, now)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("insert transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		existing, err := r.GetTransactionBySourceKey(ctx, t.Owner, t.SourceKey)
		if err != nil {
			return core.Transaction{}, false, err
		}
		slog.DebugContext(ctx, "Transaction already materialized", "source_key", t.SourceKey, "id", existing.ID)
		return existing, false, nil
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"owner", t.Owner,
		"amount", t.Amount.String(),
		"category", t.CategoryName,
		"date", t.Date)
	return t, true, nil
}

// GetTransactionBySourceKey returns the owner's transaction materialized under key.
func (r *SQLiteRepository) GetTransactionBySourceKey(ctx context.Context, owner, key string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE owner = ? AND source_key = ?`, owner, key)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction with source key %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by source key: %w", err)
	}
	return t, nil
}

// ListTransactions returns the owner's transactions dated within p, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, owner string, p core.Period) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner = ? AND date >= ? AND date < ?
		 ORDER BY date DESC, created_at DESC`, owner, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTransaction removes one of the owner's transactions and reports
// how many rows were removed.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, owner, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	return res.RowsAffected()
}
