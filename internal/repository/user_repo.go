package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eggadventure/internal/database"
	"eggadventure/internal/models"
)

// UserRepository handles account and session database operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account. Anonymous accounts pass an empty email.
func (r *UserRepository) CreateUser(ctx context.Context, id, email, passwordHash string, anonymous bool) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, is_anonymous)
		VALUES (?, ?, ?, ?)
	`

	var storedEmail interface{}
	if email != "" {
		storedEmail = email
	}
	if _, err := r.db.ExecContext(ctx, query, id, storedEmail, passwordHash, anonymous); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetUserByID(ctx, id)
}

// GetUserByID retrieves an account by its ID
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, "WHERE id = ?", id)
}

// GetUserByEmail retrieves an account by email; nil when none exists
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "WHERE email = ?", email)
}

// GetUserByOAuth retrieves an account linked to an OAuth identity
func (r *UserRepository) GetUserByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	return r.getUser(ctx, "WHERE oauth_provider = ? AND oauth_subject = ?", provider, subject)
}

func (r *UserRepository) getUser(ctx context.Context, where string, args ...interface{}) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, is_anonymous, oauth_provider, oauth_subject, created_at
		FROM users
	` + where

	user := &models.User{}
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&email,
		&user.PasswordHash,
		&user.IsAnonymous,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}

// LinkOAuthProvider attaches an OAuth identity to an existing account
func (r *UserRepository) LinkOAuthProvider(ctx context.Context, userID, provider, subject string) error {
	query := "UPDATE users SET oauth_provider = ?, oauth_subject = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, provider, subject, userID)
	return err
}

// CreateSession inserts a new session
func (r *UserRepository) CreateSession(ctx context.Context, sessionID, userID string, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, sessionID, userID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID; nil when none exists
func (r *UserRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now())
	return err
}
