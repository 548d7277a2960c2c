package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eggadventure/internal/database"
)

// AppNamespace is the fixed application namespace profile documents live
// under; ProfileSlot is the fixed document slot per user.
const (
	AppNamespace = "egg-adventure-prod-v1"
	ProfileSlot  = "gameData"
)

// ProfileRepository stores one profile document per user, addressed by
// (namespace, user, slot). Writes are full-document overwrites.
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get reads a user's profile document. The second return value reports
// whether a document exists.
func (r *ProfileRepository) Get(ctx context.Context, userID string) ([]byte, int64, bool, error) {
	query := `
		SELECT doc, version
		FROM profiles
		WHERE namespace = ? AND user_id = ? AND slot = ?
	`

	var doc string
	var version int64
	err := r.db.QueryRowContext(ctx, query, AppNamespace, userID, ProfileSlot).Scan(&doc, &version)
	if err == sql.ErrNoRows {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read profile for user %s: %w", userID, err)
	}
	return []byte(doc), version, true, nil
}

// Put overwrites the user's full profile document, creating it if absent.
// Update-then-insert keeps the overwrite portable across all three
// dialects. Background saves may reach the database out of order, so the
// update only lands when the incoming version is higher than the stored
// one; a write that lost the race is dropped without error.
func (r *ProfileRepository) Put(ctx context.Context, userID string, doc []byte, version int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin profile write: %w", err)
	}
	defer tx.Rollback()

	update := r.db.Dialect.RewriteQuery(`
		UPDATE profiles
		SET doc = ?, version = ?, updated_at = ?
		WHERE namespace = ? AND user_id = ? AND slot = ? AND version < ?
	`)
	result, err := tx.ExecContext(ctx, update, string(doc), version, time.Now().UTC(), AppNamespace, userID, ProfileSlot, version)
	if err != nil {
		return fmt.Errorf("failed to overwrite profile for user %s: %w", userID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check profile write: %w", err)
	}
	if rows == 0 {
		// Either no document exists yet or the stored version is
		// already at or past the incoming one
		check := r.db.Dialect.RewriteQuery(`
			SELECT version FROM profiles
			WHERE namespace = ? AND user_id = ? AND slot = ?
		`)
		var stored int64
		err := tx.QueryRowContext(ctx, check, AppNamespace, userID, ProfileSlot).Scan(&stored)
		if err == sql.ErrNoRows {
			insert := r.db.Dialect.RewriteQuery(`
				INSERT INTO profiles (namespace, user_id, slot, doc, version, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`)
			if _, err := tx.ExecContext(ctx, insert, AppNamespace, userID, ProfileSlot, string(doc), version, time.Now().UTC()); err != nil {
				return fmt.Errorf("failed to create profile for user %s: %w", userID, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check profile version for user %s: %w", userID, err)
		}
	}

	return tx.Commit()
}
