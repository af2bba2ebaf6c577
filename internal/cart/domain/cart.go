package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrOutOfStock is returned when a product with zero stock is added.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrItemNotFound is returned when an operation references a product
	// that is not in the cart.
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrInvalidQuantity signals a malformed request (zero or negative
	// quantity on add). Callers should treat it as a programming error,
	// not a user-facing condition.
	ErrInvalidQuantity = errors.New("requested quantity must be positive")

	// ErrInvalidProduct signals a malformed product snapshot.
	ErrInvalidProduct = errors.New("invalid product snapshot")
)

// ProductSnapshot is the slice of a catalog product the cart copies at
// add time. Prices and stock are never re-fetched after that.
type ProductSnapshot struct {
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	Stock     int              `json:"stock"`
	Images    []string         `json:"images,omitempty"`
}

func (p ProductSnapshot) validate() error {
	if p.ProductID == "" || p.Stock < 0 || p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

// LineItem is one product in the cart. StockCeiling is the stock level
// observed when the product was first added; Quantity never exceeds it.
type LineItem struct {
	ProductID    string           `json:"productId"`
	Name         string           `json:"name"`
	UnitPrice    decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"salePrice,omitempty"`
	Quantity     int              `json:"quantity"`
	StockCeiling int              `json:"stock"`
	Images       []string         `json:"images,omitempty"`
	AddedAt      time.Time        `json:"addedAt"`
}

// EffectivePrice is the sale price when present, the regular price otherwise.
func (i LineItem) EffectivePrice() decimal.Decimal {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.UnitPrice
}

// Cart holds the items of one shopping session, keyed by product id
// (adding an existing product increments its quantity).
type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AddItem inserts the product or increments its quantity, clamped to the
// stock ceiling. limited reports that clamping happened; the add still
// succeeds up to the ceiling.
func (c *Cart) AddItem(p ProductSnapshot, quantity int, now time.Time) (limited bool, err error) {
	if err := p.validate(); err != nil {
		return false, err
	}
	if quantity <= 0 {
		return false, ErrInvalidQuantity
	}
	if p.Stock == 0 {
		return false, ErrOutOfStock
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID != p.ProductID {
			continue
		}
		item := &c.Items[idx]
		next := item.Quantity + quantity
		if next > item.StockCeiling {
			next = item.StockCeiling
			limited = true
		}
		item.Quantity = next
		c.UpdatedAt = now
		return limited, nil
	}

	qty := quantity
	if qty > p.Stock {
		qty = p.Stock
		limited = true
	}
	c.Items = append(c.Items, LineItem{
		ProductID:    p.ProductID,
		Name:         p.Name,
		UnitPrice:    p.Price,
		SalePrice:    p.SalePrice,
		Quantity:     qty,
		StockCeiling: p.Stock,
		Images:       p.Images,
		AddedAt:      now,
	})
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return limited, nil
}

// UpdateQuantity sets the quantity of an item, clamped to its stock
// ceiling. A quantity of zero or less removes the item.
func (c *Cart) UpdateQuantity(productID string, quantity int, now time.Time) (limited bool, err error) {
	if quantity <= 0 {
		c.RemoveItem(productID, now)
		return false, nil
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID != productID {
			continue
		}
		item := &c.Items[idx]
		if quantity > item.StockCeiling {
			quantity = item.StockCeiling
			limited = true
		}
		item.Quantity = quantity
		c.UpdatedAt = now
		return limited, nil
	}
	return false, ErrItemNotFound
}

// RemoveItem deletes the item. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string, now time.Time) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = now
			return
		}
	}
}

// Clear empties the cart. Used on successful checkout.
func (c *Cart) Clear(now time.Time) {
	c.Items = nil
	c.UpdatedAt = now
}

// Subtotal recomputes the cart total from current items on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount is the sum of all line item quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a deep copy. Mutating the copy never touches the original.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]LineItem, len(c.Items))
	copy(clone.Items, c.Items)
	for idx := range clone.Items {
		if sale := clone.Items[idx].SalePrice; sale != nil {
			v := *sale
			clone.Items[idx].SalePrice = &v
		}
		if imgs := clone.Items[idx].Images; imgs != nil {
			clone.Items[idx].Images = append([]string(nil), imgs...)
		}
	}
	return &clone
}
