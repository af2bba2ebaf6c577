package storage

import (
	"context"
	"errors"
)

// Store persists keyed JSON documents. The ledgers write through it after
// every mutation; last write wins, there is no cross-writer coordination.
type Store interface {
	// Load decodes the document at key into v. Returns ErrNotFound when
	// the key has never been saved.
	Load(ctx context.Context, key string, v any) error
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("document not found")

// CartKey scopes a cart document to one shopping session.
func CartKey(sessionID string) string {
	return "cart:" + sessionID
}

// LoyaltyKey scopes a loyalty document to one authenticated identity.
func LoyaltyKey(userID string) string {
	return "loyalty:" + userID
}
