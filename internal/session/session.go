// Package session ties the identity client and the collection store together:
// login hydrates the collection, logout clears it, and any operation can ask
// who the current user is.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waxlog/internal/collection"
	"github.com/desertthunder/waxlog/internal/identity"
	"github.com/desertthunder/waxlog/internal/models"
	"github.com/desertthunder/waxlog/internal/shared"
)

// Manager tracks the authenticated user and keeps the collection cache in
// step with login state.
type Manager struct {
	identity *identity.Client
	store    *collection.Store
	logger   *log.Logger

	mu   sync.RWMutex
	user *models.User
}

func NewManager(identityClient *identity.Client, store *collection.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Manager{
		identity: identityClient,
		store:    store,
		logger:   logger,
	}
}

// Initialize restores the session for an already-attached secret: it asks the
// identity service who the session belongs to, then hydrates the collection.
// A missing or expired session is not an error, just a logged-out start.
func (m *Manager) Initialize(ctx context.Context) error {
	user, err := m.identity.Current(ctx)
	if err != nil {
		m.logger.Debugf("no restorable session: %v", err)
		return nil
	}

	return m.OnLogin(ctx, user)
}

// OnLogin records the user and fetches their full collection. A failed fetch
// leaves the user logged in with a failed cache so a retry can heal it.
func (m *Manager) OnLogin(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if err := m.store.FetchAll(ctx, user.ID); err != nil {
		return fmt.Errorf("logged in but collection fetch failed: %w", err)
	}

	m.logger.Debugf("session started for %s", user.Email)
	return nil
}

// OnLogout clears the user and all cached collection state.
func (m *Manager) OnLogout() {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	m.store.Cache().Reset()
}

// User returns the current user, nil when logged out.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// RequireUser returns the current user or ErrNotAuthenticated.
func (m *Manager) RequireUser() (*models.User, error) {
	if user := m.User(); user != nil {
		return user, nil
	}
	return nil, fmt.Errorf("%w: log in first", shared.ErrNotAuthenticated)
}
