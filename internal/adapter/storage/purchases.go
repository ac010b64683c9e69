package storage

import (
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PurchaseLedger = (*PurchaseLedger)(nil)

// A PurchaseLedger is an append-only per-user purchase history.
type PurchaseLedger struct {
	mu      sync.RWMutex
	history map[string][]domain.PurchaseRecord
}

func NewPurchaseLedger() *PurchaseLedger {
	return &PurchaseLedger{history: make(map[string][]domain.PurchaseRecord)}
}

func (l *PurchaseLedger) AppendPurchases(
	username string, rs []domain.PurchaseRecord,
) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[username] = append(l.history[username], rs...)
}

func (l *PurchaseLedger) PurchaseHistory(username string) []domain.PurchaseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rs := slices.Clone(l.history[username])
	if rs == nil {
		rs = []domain.PurchaseRecord{}
	}
	return rs
}

// reset drops all state and reports how many entries were held.
func (l *PurchaseLedger) reset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.history)
	clear(l.history)
	return n
}
