package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// Stock ceiling invariant: no sequence of adds and quantity updates may
// push an item's quantity above the ceiling recorded for it.
func TestStockCeilingInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cart := &Cart{SessionID: "prop"}
		now := time.Now()

		products := rapid.IntRange(1, 5).Draw(t, "products")
		stocks := make(map[string]int, products)
		for i := 0; i < products; i++ {
			id := fmt.Sprintf("p%d", i)
			stocks[id] = rapid.IntRange(1, 20).Draw(t, "stock")
		}

		ops := rapid.IntRange(1, 80).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			id := fmt.Sprintf("p%d", rapid.IntRange(0, products-1).Draw(t, "pick"))
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				snap := ProductSnapshot{
					ProductID: id,
					Price:     decimal.NewFromInt(10),
					Stock:     stocks[id],
				}
				qty := rapid.IntRange(1, 30).Draw(t, "qty")
				if _, err := cart.AddItem(snap, qty, now); err != nil {
					t.Fatalf("add failed: %v", err)
				}
			case 1:
				qty := rapid.IntRange(0, 30).Draw(t, "qty")
				_, err := cart.UpdateQuantity(id, qty, now)
				if err != nil && err != ErrItemNotFound {
					t.Fatalf("update failed: %v", err)
				}
			case 2:
				cart.RemoveItem(id, now)
			}

			seen := make(map[string]bool, len(cart.Items))
			count := 0
			for _, item := range cart.Items {
				if item.Quantity < 1 {
					t.Fatalf("item %s has non-positive quantity %d", item.ProductID, item.Quantity)
				}
				if item.Quantity > item.StockCeiling {
					t.Fatalf("item %s quantity %d above ceiling %d", item.ProductID, item.Quantity, item.StockCeiling)
				}
				if seen[item.ProductID] {
					t.Fatalf("duplicate line item for %s", item.ProductID)
				}
				seen[item.ProductID] = true
				count += item.Quantity
			}
			if cart.ItemCount() != count {
				t.Fatalf("item count %d != summed quantities %d", cart.ItemCount(), count)
			}
		}
	})
}
