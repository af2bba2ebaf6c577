package session

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/dejidee0/litwaypickss-eccomerce/internal/cart/domain"
	loyaltydomain "github.com/dejidee0/litwaypickss-eccomerce/internal/loyalty/domain"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/storage"
)

func TestManager_SessionIsCached(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), loyaltydomain.DefaultConfig())
	ctx := context.Background()

	first, err := m.Session(ctx, "u1")
	require.NoError(t, err)
	second, err := m.Session(ctx, "u1")
	require.NoError(t, err)

	assert.Same(t, first, second, "same user gets the same session")

	other, err := m.Session(ctx, "u2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestManager_ConcurrentFirstAccessLoadsOnce(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), loyaltydomain.DefaultConfig())
	ctx := context.Background()

	const goroutines = 16
	sessions := make([]*Session, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sess, err := m.Session(ctx, "u1")
			assert.NoError(t, err)
			sessions[idx] = sess
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
}

func TestManager_EvictReloadsFromStore(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store, loyaltydomain.DefaultConfig())
	ctx := context.Background()

	sess, err := m.Session(ctx, "u1")
	require.NoError(t, err)

	_, err = sess.Cart.AddItem(ctx, cartdomain.ProductSnapshot{
		ProductID: "p1",
		Price:     decimal.NewFromInt(10),
		Stock:     5,
	}, 2)
	require.NoError(t, err)

	m.Evict("u1")
	reloaded, err := m.Session(ctx, "u1")
	require.NoError(t, err)

	assert.NotSame(t, sess, reloaded)
	assert.Equal(t, 2, reloaded.Cart.ItemCount(), "state survives eviction via the store")
}
