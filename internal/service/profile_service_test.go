package service

import (
	"context"
	"testing"
	"time"

	"eggadventure/internal/database"
	"eggadventure/internal/models"
	"eggadventure/internal/repository"
)

func newTestProfileService(t *testing.T) *ProfileService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return NewProfileService(repository.NewProfileRepository(db))
}

func TestProfileServiceLoadDefault(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	player, exists, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Fatal("Load() reported a stored profile before any save")
	}
	if player.HP != 100 || player.Gold != 100 || player.CurrentRoom != models.StartRoomKey {
		t.Errorf("Load() default = hp %d gold %d room %s, want 100/100/%s",
			player.HP, player.Gold, player.CurrentRoom, models.StartRoomKey)
	}
}

func TestProfileServiceSaveLoadRoundTrip(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	player := models.DefaultPlayer()
	player.Gold = 250
	player.HP = 70
	player.CurrentRoom = "shop"
	player.WrongQuestions.Add("math", "一上", "math_一上_simple_3")
	player.Version = 1
	player.UpdatedAt = time.Now()

	if err := svc.Save(ctx, "user-1", player); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, exists, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Fatal("Load() missed a saved profile")
	}
	if loaded.Gold != 250 || loaded.HP != 70 || loaded.CurrentRoom != "shop" {
		t.Errorf("Load() = gold %d hp %d room %s, want 250/70/shop",
			loaded.Gold, loaded.HP, loaded.CurrentRoom)
	}
	if !loaded.WrongQuestions.Has("math", "一上", "math_一上_simple_3") {
		t.Error("Load() lost a recorded missed question")
	}
	if loaded.Version != 1 {
		t.Errorf("Load() version = %d, want 1", loaded.Version)
	}
}

func TestProfileServiceWatch(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	ch, cancel := svc.Watch("user-1")
	defer cancel()

	player := models.DefaultPlayer()
	player.Gold = 500
	player.Version = 2
	if err := svc.Save(ctx, "user-1", player); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	select {
	case got := <-ch:
		if got.Gold != 500 || got.Version != 2 {
			t.Errorf("watch snapshot = gold %d version %d, want 500/2", got.Gold, got.Version)
		}
	case <-time.After(time.Second):
		t.Fatal("watch channel never delivered the saved snapshot")
	}

	// Saves to another user must not reach this watcher
	other := models.DefaultPlayer()
	if err := svc.Save(ctx, "user-2", other); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	select {
	case got := <-ch:
		t.Errorf("watch received another user's snapshot: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}

	// Cancel closes the channel
	cancel()
	if _, ok := <-ch; ok {
		t.Error("watch channel still open after cancel")
	}
}
