package repository

import (
	"context"
	"os"
	"testing"

	"eggadventure/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := t.TempDir() + "/test.db"
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestProfileRepositoryPutGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	// No document yet
	_, _, exists, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if exists {
		t.Fatal("Get() reported a document before any write")
	}

	// First write creates the document
	doc := []byte(`{"hp":100,"gold":100}`)
	if err := repo.Put(ctx, "user-1", doc, 0); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, version, exists, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !exists {
		t.Fatal("document missing after Put()")
	}
	if string(got) != string(doc) {
		t.Errorf("Get() doc = %s, want %s", got, doc)
	}
	if version != 0 {
		t.Errorf("Get() version = %d, want 0", version)
	}

	// Second write overwrites the whole document
	doc2 := []byte(`{"hp":80,"gold":250,"currentRoom":"shop"}`)
	if err := repo.Put(ctx, "user-1", doc2, 1); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, version, _, err = repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(doc2) {
		t.Errorf("Get() after overwrite = %s, want %s", got, doc2)
	}
	if version != 1 {
		t.Errorf("version after overwrite = %d, want 1", version)
	}

	// Documents are per-user
	_, _, exists, err = repo.Get(ctx, "user-2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if exists {
		t.Error("Get() leaked another user's document")
	}
}

func TestProfileRepositoryStaleWriteDropped(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	newer := []byte(`{"gold":200}`)
	if err := repo.Put(ctx, "user-1", newer, 2); err != nil {
		t.Fatalf("Put(v2) error = %v", err)
	}

	// A save that reached the database late must not roll the
	// document back
	if err := repo.Put(ctx, "user-1", []byte(`{"gold":100}`), 1); err != nil {
		t.Fatalf("Put(v1) error = %v", err)
	}

	got, version, _, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if string(got) != string(newer) {
		t.Errorf("doc = %s, want %s", got, newer)
	}

	// Re-delivering the same version is a no-op, not an error
	if err := repo.Put(ctx, "user-1", []byte(`{"gold":999}`), 2); err != nil {
		t.Fatalf("Put(v2 again) error = %v", err)
	}
	got, _, _, err = repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(newer) {
		t.Errorf("doc after replay = %s, want %s", got, newer)
	}
}
