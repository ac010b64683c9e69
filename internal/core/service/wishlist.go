package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

// AddToWishlist is idempotent. Unknown product ids are accepted and are
// left out of [Service.Wishlist].
func (s *Service) AddToWishlist(
	ctx context.Context, username string, productID int,
) error {
	const op = "Service.AddToWishlist"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.wishlistLocks.lock(username)
	defer unlock()

	s.wishlists.AddWishlistItem(username, productID)
	logger(op).Info("wishlist item added", "username", username, "productID", productID)
	return nil
}

func (s *Service) RemoveFromWishlist(
	ctx context.Context, username string, productID int,
) error {
	const op = "Service.RemoveFromWishlist"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.wishlistLocks.lock(username)
	defer unlock()

	if !s.wishlists.RemoveWishlistItem(username, productID) {
		return fmt.Errorf(
			"%s: %w", op, domain.NotFoundError{Entity: "wishlist item", ID: productID},
		)
	}
	logger(op).Info("wishlist item removed", "username", username, "productID", productID)
	return nil
}

// Wishlist joins the user's product ids against the catalog, in catalog order.
func (s *Service) Wishlist(
	ctx context.Context, username string,
) ([]domain.Product, error) {
	const op = "Service.Wishlist"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unlock := s.wishlistLocks.lock(username)
	ids := s.wishlists.WishlistItems(username)
	unlock()

	ps := slices.DeleteFunc(s.products.Products(), func(p domain.Product) bool {
		_, ok := ids[p.ID]
		return !ok
	})
	return ps, nil
}
