package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

const categoryColumns = `id, owner, name, type, sort_order, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c                    core.Category
		typ                  string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Owner, &c.Name, &typ, &c.SortOrder, &createdAt, &updatedAt); err != nil {
		return core.Category{}, err
	}
	c.Type = core.CategoryType(typ)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

// CreateCategory inserts a category; names are unique per owner.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = newID()
	now := r.timestamp()
	c.CreatedAt = parseTime(now)
	c.UpdatedAt = c.CreatedAt

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE owner = ? AND name = ?`, c.Owner, c.Name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: %q", core.ErrDuplicateCategory, c.Name)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Owner, c.Name, string(c.Type), c.SortOrder, now, now)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}

	slog.InfoContext(ctx, "Category created", "id", c.ID, "owner", c.Owner, "name", c.Name, "type", c.Type)
	return c, nil
}

// GetCategoryByID looks up (owner, id) exactly.
func (r *SQLiteRepository) GetCategoryByID(ctx context.Context, owner, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner = ? AND id = ?`, owner, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category by id: %w", err)
	}
	return c, nil
}

// GetCategoryByName looks up (owner, name) exactly.
func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, owner, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner = ? AND name = ?`, owner, name)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// ListCategories returns the owner's categories in display order.
func (r *SQLiteRepository) ListCategories(ctx context.Context, owner string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner = ? ORDER BY sort_order, name`, owner)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory renames, reorders or retypes a category. A rename is
// propagated to the name cached on the owner's transactions in the same
// transaction; a type change is refused once transactions reference it.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	now := r.timestamp()

	var updated core.Category
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		current, err := scanCategory(tx.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE owner = ? AND id = ?`, c.Owner, c.ID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %s: %w", c.ID, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}

		if current.Name != c.Name {
			var clash int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM categories WHERE owner = ? AND name = ? AND id <> ?`,
				c.Owner, c.Name, c.ID).Scan(&clash); err != nil {
				return fmt.Errorf("check category name: %w", err)
			}
			if clash > 0 {
				return fmt.Errorf("%w: %q", core.ErrDuplicateCategory, c.Name)
			}
		}

		if current.Type != c.Type {
			var refs int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM transactions WHERE owner = ? AND category_id = ?`,
				c.Owner, c.ID).Scan(&refs); err != nil {
				return fmt.Errorf("count category references: %w", err)
			}
			if refs > 0 {
				return core.ErrCategoryInUse
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name = ?, type = ?, sort_order = ?, updated_at = ? WHERE owner = ? AND id = ?`,
			c.Name, string(c.Type), c.SortOrder, now, c.Owner, c.ID); err != nil {
			return fmt.Errorf("update category: %w", err)
		}

		if current.Name != c.Name {
			res, err := tx.ExecContext(ctx,
				`UPDATE transactions SET category_name = ? WHERE owner = ? AND category_id = ?`,
				c.Name, c.Owner, c.ID)
			if err != nil {
				return fmt.Errorf("propagate category rename: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE budgets SET category = ? WHERE owner = ? AND category = ?`,
				c.Name, c.Owner, current.Name); err != nil {
				return fmt.Errorf("propagate category rename to budgets: %w", err)
			}
			n, _ := res.RowsAffected()
			slog.InfoContext(ctx, "Category rename propagated",
				"id", c.ID, "from", current.Name, "to", c.Name, "transactions", n)
		}

		updated = c
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = parseTime(now)
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return updated, nil
}
