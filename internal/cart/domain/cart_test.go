package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(id string, price int64, stock int) ProductSnapshot {
	return ProductSnapshot{
		ProductID: id,
		Name:      "product " + id,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
	}
}

func TestAddItem_NewProduct(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()

	limited, err := cart.AddItem(snapshot("p1", 50, 10), 2, now)
	require.NoError(t, err)
	assert.False(t, limited)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 10, cart.Items[0].StockCeiling)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestAddItem_ExistingProductIncrements(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()

	_, err := cart.AddItem(snapshot("p1", 50, 10), 1, now)
	require.NoError(t, err)
	_, err = cart.AddItem(snapshot("p1", 50, 10), 3, now)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "same product must not duplicate")
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItem_ClampsToStockCeiling(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()

	_, err := cart.AddItem(snapshot("p1", 50, 3), 2, now)
	require.NoError(t, err)

	limited, err := cart.AddItem(snapshot("p1", 50, 3), 5, now)
	require.NoError(t, err, "clamped add still partially succeeds")
	assert.True(t, limited)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_RequestAboveStockClampsOnInsert(t *testing.T) {
	cart := &Cart{SessionID: "s1"}

	limited, err := cart.AddItem(snapshot("p1", 50, 2), 5, time.Now())
	require.NoError(t, err)
	assert.True(t, limited)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItem_OutOfStock(t *testing.T) {
	cart := &Cart{SessionID: "s1"}

	_, err := cart.AddItem(snapshot("p1", 50, 0), 1, time.Now())
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, cart.Items, "failed add must not change state")
}

func TestAddItem_InvalidInput(t *testing.T) {
	cart := &Cart{SessionID: "s1"}

	_, err := cart.AddItem(snapshot("p1", 50, 5), 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = cart.AddItem(snapshot("", 50, 5), 1, time.Now())
	assert.ErrorIs(t, err, ErrInvalidProduct)

	bad := snapshot("p2", 10, 5)
	neg := decimal.NewFromInt(-1)
	bad.SalePrice = &neg
	_, err = cart.AddItem(bad, 1, time.Now())
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestUpdateQuantity(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()
	_, err := cart.AddItem(snapshot("p1", 50, 5), 1, now)
	require.NoError(t, err)

	limited, err := cart.UpdateQuantity("p1", 4, now)
	require.NoError(t, err)
	assert.False(t, limited)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	limited, err = cart.UpdateQuantity("p1", 9, now)
	require.NoError(t, err)
	assert.True(t, limited)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()
	_, err := cart.AddItem(snapshot("p1", 50, 5), 2, now)
	require.NoError(t, err)

	_, err = cart.UpdateQuantity("p1", 0, now)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_NotFound(t *testing.T) {
	cart := &Cart{SessionID: "s1"}

	_, err := cart.UpdateQuantity("ghost", 2, time.Now())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()
	_, err := cart.AddItem(snapshot("p1", 50, 5), 2, now)
	require.NoError(t, err)

	cart.RemoveItem("p1", now)
	assert.Empty(t, cart.Items)
	cart.RemoveItem("p1", now) // absent, no-op
	assert.Empty(t, cart.Items)
}

func TestSubtotal_PrefersSalePrice(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()

	sale := decimal.NewFromInt(30)
	onSale := snapshot("p1", 50, 5)
	onSale.SalePrice = &sale
	_, err := cart.AddItem(onSale, 2, now)
	require.NoError(t, err)
	_, err = cart.AddItem(snapshot("p2", 20, 5), 1, now)
	require.NoError(t, err)

	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(80)), "got %s", cart.Subtotal())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestClear(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()
	_, err := cart.AddItem(snapshot("p1", 50, 5), 2, now)
	require.NoError(t, err)

	cart.Clear(now)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestClone_IsIndependent(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	now := time.Now()
	sale := decimal.NewFromInt(30)
	p := snapshot("p1", 50, 5)
	p.SalePrice = &sale
	p.Images = []string{"a.jpg"}
	_, err := cart.AddItem(p, 2, now)
	require.NoError(t, err)

	clone := cart.Clone()
	clone.Items[0].Quantity = 5
	*clone.Items[0].SalePrice = decimal.NewFromInt(1)
	clone.Items[0].Images[0] = "b.jpg"

	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].SalePrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "a.jpg", cart.Items[0].Images[0])
}
