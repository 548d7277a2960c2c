package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"eggadventure/internal/models"
	"eggadventure/internal/repository"
)

// ProfileService stores player profiles as whole JSON documents and fans
// confirmed writes back out to watchers of the same user.
type ProfileService struct {
	repo *repository.ProfileRepository

	mu       sync.Mutex
	watchers map[string]map[int]chan models.Player
	nextID   int
}

// NewProfileService creates a new profile service
func NewProfileService(repo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		repo:     repo,
		watchers: make(map[string]map[int]chan models.Player),
	}
}

// Load reads the stored profile document and merges it over the default
// profile so documents written by older versions still load cleanly.
// The second return reports whether a stored document existed.
func (s *ProfileService) Load(ctx context.Context, userID string) (models.Player, bool, error) {
	doc, version, exists, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.Player{}, false, fmt.Errorf("failed to load profile: %w", err)
	}
	if !exists {
		return models.DefaultPlayer(), false, nil
	}

	player, err := models.MergePlayer(doc)
	if err != nil {
		return models.Player{}, false, fmt.Errorf("failed to decode profile: %w", err)
	}
	// The row version is authoritative over whatever the document carries
	player.Version = version
	return player, true, nil
}

// Save overwrites the full profile document and notifies watchers
func (s *ProfileService) Save(ctx context.Context, userID string, p models.Player) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.repo.Put(ctx, userID, doc, p.Version); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.notify(userID, p)
	return nil
}

// Watch returns a channel of confirmed profile snapshots for a user.
// The cancel func releases the subscription; the channel is closed after.
func (s *ProfileService) Watch(userID string) (<-chan models.Player, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan models.Player, 8)
	id := s.nextID
	s.nextID++

	if s.watchers[userID] == nil {
		s.watchers[userID] = make(map[int]chan models.Player)
	}
	s.watchers[userID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.watchers[userID]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
				if len(subs) == 0 {
					delete(s.watchers, userID)
				}
			}
		}
	}
	return ch, cancel
}

// notify sends a snapshot to every watcher of the user without blocking.
// A watcher whose buffer is full misses the snapshot; a newer one follows.
func (s *ProfileService) notify(userID string, p models.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers[userID] {
		select {
		case ch <- p.Clone():
		default:
		}
	}
}
