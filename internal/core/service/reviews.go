package service

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

// AddReview stores r on behalf of caller. A caller cannot post under
// another username, and the product must exist at call time.
func (s *Service) AddReview(
	ctx context.Context, caller string, r domain.Review,
) error {
	const op = "Service.AddReview"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if r.Username != caller {
		return fmt.Errorf(
			"%s: %w: cannot post a review as %q", op, domain.ErrForbidden, r.Username,
		)
	}

	if _, err := s.products.Product(r.ProductID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.reviews.AppendReview(r)
	logger(op).Info("review added",
		"productID", r.ProductID, "username", r.Username, "rating", r.Rating)
	return nil
}

func (s *Service) ProductReviews(
	ctx context.Context, productID int,
) ([]domain.Review, error) {
	const op = "Service.ProductReviews"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.reviews.ReviewsByProduct(productID), nil
}
