package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	id := uuid.New().String()
	created, err := repo.CreateUser(ctx, id, "parent@example.com", "hash123", false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.ID != id {
		t.Errorf("CreateUser() ID = %s, want %s", created.ID, id)
	}

	user, err := repo.GetUserByEmail(ctx, "parent@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if user == nil {
		t.Fatal("GetUserByEmail() returned nil for existing user")
	}
	if user.ID != id {
		t.Errorf("user.ID = %s, want %s", user.ID, id)
	}
	if user.PasswordHash != "hash123" {
		t.Errorf("user.PasswordHash = %s, want hash123", user.PasswordHash)
	}
	if user.IsAnonymous {
		t.Error("user.IsAnonymous = true, want false")
	}

	byID, err := repo.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if byID == nil || byID.Email != "parent@example.com" {
		t.Errorf("GetUserByID() = %+v, want email parent@example.com", byID)
	}

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if missing != nil {
		t.Error("GetUserByEmail() returned a user for an unknown email")
	}
}

func TestUserRepositoryAnonymousUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// Two anonymous users must not collide on the NULL email
	id1 := uuid.New().String()
	id2 := uuid.New().String()
	if _, err := repo.CreateUser(ctx, id1, "", "", true); err != nil {
		t.Fatalf("CreateUser() first anonymous error = %v", err)
	}
	if _, err := repo.CreateUser(ctx, id2, "", "", true); err != nil {
		t.Fatalf("CreateUser() second anonymous error = %v", err)
	}

	user, err := repo.GetUserByID(ctx, id1)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if !user.IsAnonymous {
		t.Error("user.IsAnonymous = false, want true")
	}
	if user.Email != "" {
		t.Errorf("user.Email = %q, want empty", user.Email)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	if _, err := repo.CreateUser(ctx, userID, "player@example.com", "hash", false); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	sessionID := uuid.New().String()
	expires := time.Now().Add(time.Hour)
	if _, err := repo.CreateSession(ctx, sessionID, userID, expires); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	session, err := repo.GetSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session == nil {
		t.Fatal("GetSession() returned nil for existing session")
	}
	if session.UserID != userID {
		t.Errorf("session.UserID = %s, want %s", session.UserID, userID)
	}
	if session.IsExpired() {
		t.Error("session reported expired before its expiry time")
	}

	if err := repo.DeleteSession(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	session, err = repo.GetSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSession() after delete error = %v", err)
	}
	if session != nil {
		t.Error("GetSession() returned a deleted session")
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	if _, err := repo.CreateUser(ctx, userID, "", "", true); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	expiredID := uuid.New().String()
	liveID := uuid.New().String()
	if _, err := repo.CreateSession(ctx, expiredID, userID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.CreateSession(ctx, liveID, userID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := repo.DeleteExpiredSessions(ctx); err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}

	gone, err := repo.GetSession(ctx, expiredID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if gone != nil {
		t.Error("expired session survived cleanup")
	}
	live, err := repo.GetSession(ctx, liveID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if live == nil {
		t.Error("live session removed by cleanup")
	}
}
