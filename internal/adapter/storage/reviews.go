package storage

import (
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ReviewsStorage = (*ReviewsRepository)(nil)

type ReviewsRepository struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{}
}

func (r *ReviewsRepository) AppendReview(v domain.Review) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, v)
}

func (r *ReviewsRepository) ReviewsByProduct(productID int) []domain.Review {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vs := []domain.Review{}
	for _, v := range r.reviews {
		if v.ProductID == productID {
			vs = append(vs, v)
		}
	}
	return vs
}

// reset drops all state and reports how many entries were held.
func (r *ReviewsRepository) reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.reviews)
	r.reviews = nil
	return n
}
