package game

import (
	"context"
	"sync"
)

// Manager owns one controller per signed-in user. It is constructed once at
// startup and injected into the handlers; there is no ambient global state.
type Manager struct {
	store  Store
	mailer Mailer

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates a controller manager backed by the given profile store
func NewManager(store Store, mailer Mailer) *Manager {
	return &Manager{
		store:       store,
		mailer:      mailer,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the user's controller, creating and starting one on first use
func (m *Manager) Get(ctx context.Context, userID string) *Controller {
	m.mu.Lock()
	if c, ok := m.controllers[userID]; ok {
		m.mu.Unlock()
		return c
	}
	c := NewController(userID, m.store, m.mailer)
	m.controllers[userID] = c
	m.mu.Unlock()

	// Start outside the manager lock: loading talks to the store
	c.Start(ctx)
	return c
}

// Release closes and forgets the user's controller. Called on sign-out so
// the profile subscription is dropped before another account signs in.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	c, ok := m.controllers[userID]
	delete(m.controllers, userID)
	m.mu.Unlock()

	if ok {
		c.Close()
	}
}

// CloseAll shuts down every controller, for server shutdown
func (m *Manager) CloseAll() {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.controllers))
	for userID, c := range m.controllers {
		controllers = append(controllers, c)
		delete(m.controllers, userID)
	}
	m.mu.Unlock()

	for _, c := range controllers {
		c.Close()
	}
}
