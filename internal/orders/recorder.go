package orders

import (
	"sync"

	d "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/domain"
)

// Recorder keeps the orders seen by the consumer, deduplicated by order
// id so replayed messages do not create duplicates.
type Recorder struct {
	mu     sync.RWMutex
	byID   map[string]d.CompletedOrder
	byUser map[string][]string
}

func NewRecorder() *Recorder {
	return &Recorder{
		byID:   make(map[string]d.CompletedOrder),
		byUser: make(map[string][]string),
	}
}

// Record stores the order. Returns false when the order id was already
// recorded.
func (r *Recorder) Record(order d.CompletedOrder) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[order.OrderID]; exists {
		return false
	}
	r.byID[order.OrderID] = order
	r.byUser[order.UserID] = append(r.byUser[order.UserID], order.OrderID)
	return true
}

func (r *Recorder) Get(orderID string) (d.CompletedOrder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.byID[orderID]
	return order, ok
}

// ListByUser returns the user's orders, most recent first.
func (r *Recorder) ListByUser(userID string) []d.CompletedOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byUser[userID]
	out := make([]d.CompletedOrder, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, r.byID[ids[i]])
	}
	return out
}
