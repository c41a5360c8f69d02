package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// SetCredential stores a bcrypt hash of secret for owner, replacing any
// previous one.
func (r *SQLiteRepository) SetCredential(ctx context.Context, owner, secret string) error {
	if strings.TrimSpace(owner) == "" {
		return core.ErrEmptyOwner
	}
	if len(secret) < 8 {
		return errors.New("secret too short (min 8 characters)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}
	now := r.timestamp()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO credentials (owner, secret_hash, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET secret_hash = excluded.secret_hash, updated_at = excluded.updated_at`,
		owner, string(hash), now, now)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Verify reports whether secret matches the stored credential of owner.
// Unknown owners verify as false without error.
func (r *SQLiteRepository) Verify(ctx context.Context, owner, secret string) (bool, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT secret_hash FROM credentials WHERE owner = ?`, owner).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load credential: %w", err)
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare secret: %w", err)
	}
	return true, nil
}
