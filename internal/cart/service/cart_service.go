package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dejidee0/litwaypickss-eccomerce/internal/cart/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/storage"
)

// Ledger owns the cart of one shopping session. Mutations run the pure
// reducer on a copy, write the result through the store, and only then
// swap the in-memory state, so a failed save never leaves the two out
// of sync. Timestamps are recorded in UTC so a reloaded document is
// identical to the state that was saved.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	key   string
	cart  *domain.Cart
}

// Load reads the persisted cart for the session, starting empty when
// none exists yet.
func Load(ctx context.Context, store storage.Store, sessionID string) (*Ledger, error) {
	key := storage.CartKey(sessionID)
	cart := &domain.Cart{SessionID: sessionID}

	err := store.Load(ctx, key, cart)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load cart %q: %w", sessionID, err)
	}

	return &Ledger{store: store, key: key, cart: cart}, nil
}

// AddItem adds a product snapshot to the cart. limited reports that the
// quantity was clamped to the stock ceiling.
func (l *Ledger) AddItem(ctx context.Context, p domain.ProductSnapshot, quantity int) (limited bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.cart.Clone()
	limited, err = next.AddItem(p, quantity, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return limited, l.commit(ctx, next)
}

func (l *Ledger) UpdateQuantity(ctx context.Context, productID string, quantity int) (limited bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.cart.Clone()
	limited, err = next.UpdateQuantity(productID, quantity, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return limited, l.commit(ctx, next)
}

func (l *Ledger) RemoveItem(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.cart.Clone()
	next.RemoveItem(productID, time.Now().UTC())
	return l.commit(ctx, next)
}

// Clear empties the cart. Called by the checkout orchestrator after a
// successful payment.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.cart.Clone()
	next.Clear(time.Now().UTC())
	return l.commit(ctx, next)
}

// Subtotal is recomputed from current items on every call.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.Subtotal()
}

func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.ItemCount()
}

// Cart returns a copy of the current state for rendering.
func (l *Ledger) Cart() domain.Cart {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.cart.Clone()
}

func (l *Ledger) commit(ctx context.Context, next *domain.Cart) error {
	if err := l.store.Save(ctx, l.key, next); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	l.cart = next
	return nil
}
