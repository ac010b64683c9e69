package storage

import (
	"maps"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.WishlistsStorage = (*WishlistsRepository)(nil)

type WishlistsRepository struct {
	mu        sync.RWMutex
	wishlists map[string]map[int]struct{}
}

func NewWishlistsRepository() *WishlistsRepository {
	return &WishlistsRepository{wishlists: make(map[string]map[int]struct{})}
}

func (r *WishlistsRepository) AddWishlistItem(username string, productID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.wishlists[username]
	if !ok {
		set = make(map[int]struct{})
		r.wishlists[username] = set
	}
	set[productID] = struct{}{}
}

// RemoveWishlistItem reports whether productID was present.
func (r *WishlistsRepository) RemoveWishlistItem(username string, productID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.wishlists[username]
	if _, ok := set[productID]; !ok {
		return false
	}
	delete(set, productID)
	return true
}

func (r *WishlistsRepository) WishlistItems(username string) map[int]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := maps.Clone(r.wishlists[username])
	if set == nil {
		set = make(map[int]struct{})
	}
	return set
}

// reset drops all state and reports how many entries were held.
func (r *WishlistsRepository) reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.wishlists)
	clear(r.wishlists)
	return n
}
