package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	cartservice "github.com/dejidee0/litwaypickss-eccomerce/internal/cart/service"
	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	loyaltyservice "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/service"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/storage"
)

// Session bundles the two ledgers owned by one identity. Handlers get a
// session from the Manager instead of reaching for shared globals.
type Session struct {
	UserID  string
	Cart    *cartservice.Ledger
	Loyalty *loyaltyservice.Ledger
}

// Manager hands out sessions, loading each user's documents at most once.
// Concurrent first requests for the same user collapse into one load via
// singleflight.
type Manager struct {
	store storage.Store
	cfg   loyaltydomain.Config

	sfg      singleflight.Group
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(store storage.Store, cfg loyaltydomain.Config) *Manager {
	return &Manager{
		store:    store,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Session returns the cached session for the user, loading it from the
// store on first access.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	v, err, _ := m.sfg.Do(userID, func() (interface{}, error) {
		cart, err := cartservice.Load(ctx, m.store, userID)
		if err != nil {
			return nil, err
		}
		loyalty, err := loyaltyservice.Load(ctx, m.store, m.cfg, userID)
		if err != nil {
			return nil, err
		}

		sess := &Session{UserID: userID, Cart: cart, Loyalty: loyalty}
		m.mu.Lock()
		m.sessions[userID] = sess
		m.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

// Evict drops a cached session so the next access reloads from the store.
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
