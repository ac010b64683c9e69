package storage

import (
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

// A ProductsRepository keeps products in insertion order.
//
// Writes, including id generation, are serialized by the write lock.
// Reads return copies.
type ProductsRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewProductsRepository() *ProductsRepository {
	return &ProductsRepository{}
}

// InsertProduct assigns the next id as max existing id + 1, or 1 for an
// empty catalog. Deleting the product with the max id makes that id
// available again.
func (r *ProductsRepository) InsertProduct(d domain.ProductDraft) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := d.ToProduct(r.nextID())
	r.products = append(r.products, p)
	return p
}

func (r *ProductsRepository) nextID() int {
	var maxID int
	for _, p := range r.products {
		maxID = max(maxID, p.ID)
	}
	return maxID + 1
}

func (r *ProductsRepository) ReplaceProduct(
	id int, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "ProductsRepository.ReplaceProduct"

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i == -1 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(id))
	}
	r.products[i] = d.ToProduct(id)
	return r.products[i], nil
}

func (r *ProductsRepository) DeleteProduct(id int) (domain.Product, error) {
	const op = "ProductsRepository.DeleteProduct"

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i == -1 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(id))
	}
	p := r.products[i]
	r.products = slices.Delete(r.products, i, i+1)
	return p, nil
}

func (r *ProductsRepository) Product(id int) (domain.Product, error) {
	const op = "ProductsRepository.Product"

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i == -1 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, notFound(id))
	}
	return r.products[i], nil
}

func (r *ProductsRepository) Products() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ps := make([]domain.Product, len(r.products))
	copy(ps, r.products)
	return ps
}

func (r *ProductsRepository) ProductsSnapshot(
	ids []int,
) (map[int]domain.Product, error) {
	const op = "ProductsRepository.ProductsSnapshot"

	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[int]domain.Product, len(ids))
	for _, id := range ids {
		i := r.index(id)
		if i == -1 {
			return nil, fmt.Errorf("%s: %w", op, notFound(id))
		}
		snapshot[id] = r.products[i]
	}
	return snapshot, nil
}

func (r *ProductsRepository) index(id int) int {
	return slices.IndexFunc(r.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

func notFound(productID int) error {
	return domain.NotFoundError{Entity: "product", ID: productID}
}

// reset drops all state and reports how many entries were held.
func (r *ProductsRepository) reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.products)
	r.products = nil
	return n
}
