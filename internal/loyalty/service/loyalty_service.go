package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/storage"
)

// Ledger owns the loyalty account of one identity, with write-through
// persistence after every mutation. Like the cart ledger, the reducer
// runs on a copy that is only swapped in after a successful save.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	key   string
	cfg   domain.Config
	acct  *domain.Account
}

// Load reads the persisted account for the identity, creating a
// zero-valued one the first time the identity is observed.
func Load(ctx context.Context, store storage.Store, cfg domain.Config, userID string) (*Ledger, error) {
	key := storage.LoyaltyKey(userID)
	acct := domain.NewAccount()

	err := store.Load(ctx, key, acct)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load loyalty account %q: %w", userID, err)
	}

	return &Ledger{store: store, key: key, cfg: cfg, acct: acct}, nil
}

// EarnPoints credits points for a charged order total.
func (l *Ledger) EarnPoints(ctx context.Context, orderTotal decimal.Decimal, isFirstPurchase bool) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.acct.Clone()
	tx, err := next.Earn(l.cfg, orderTotal, isFirstPurchase, time.Now().UTC())
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, l.commit(ctx, next)
}

// RedeemDiscount exchanges the configured point threshold for a discount
// on the order. Returns domain.ErrInsufficientPoints below the threshold;
// that is an expected outcome, not a failure of the ledger.
func (l *Ledger) RedeemDiscount(ctx context.Context, orderTotal decimal.Decimal) (domain.Redemption, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.acct.Clone()
	red, err := next.Redeem(l.cfg, orderTotal, time.Now().UTC())
	if err != nil {
		return domain.Redemption{}, err
	}
	return red, l.commit(ctx, next)
}

// AddBonusPoints credits a configured flat bonus amount.
func (l *Ledger) AddBonusPoints(ctx context.Context, kind domain.BonusKind, description string) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.acct.Clone()
	tx, err := next.AddBonus(l.cfg, kind, description, time.Now().UTC())
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, l.commit(ctx, next)
}

// Account returns a copy of the current state.
func (l *Ledger) Account() domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.acct.Clone()
}

// Config exposes the program constants for derived queries.
func (l *Ledger) Config() domain.Config {
	return l.cfg
}

// Restore replaces the account with an earlier snapshot and persists it.
// The checkout orchestrator uses this to undo a redemption after a
// failed payment.
func (l *Ledger) Restore(ctx context.Context, snapshot domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(ctx, snapshot.Clone())
}

func (l *Ledger) commit(ctx context.Context, next *domain.Account) error {
	if err := l.store.Save(ctx, l.key, next); err != nil {
		return fmt.Errorf("persist loyalty account: %w", err)
	}
	l.acct = next
	return nil
}
