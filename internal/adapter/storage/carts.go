package storage

import (
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartsStorage = (*CartsRepository)(nil)

// A CartsRepository holds one cart per username.
// Carts are created lazily; a missing cart reads as empty.
type CartsRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewCartsRepository() *CartsRepository {
	return &CartsRepository{carts: make(map[string]domain.Cart)}
}

func (r *CartsRepository) Cart(username string) domain.Cart {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := slices.Clone(r.carts[username])
	if c == nil {
		c = domain.Cart{}
	}
	return c
}

func (r *CartsRepository) SaveCart(username string, c domain.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[username] = slices.Clone(c)
}

// reset drops all state and reports how many entries were held.
func (r *CartsRepository) reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.carts)
	clear(r.carts)
	return n
}
