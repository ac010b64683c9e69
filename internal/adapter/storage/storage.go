package storage

import "log/slog"

// A Storage owns the in-memory repositories of a single process.
// State lives for the lifetime of the Storage and is never persisted.
type Storage struct {
	Products  *ProductsRepository
	Reviews   *ReviewsRepository
	Carts     *CartsRepository
	Wishlists *WishlistsRepository
	Purchases *PurchaseLedger
}

func New() Storage {
	const op = "storage.New"
	s := Storage{
		Products:  NewProductsRepository(),
		Reviews:   NewReviewsRepository(),
		Carts:     NewCartsRepository(),
		Wishlists: NewWishlistsRepository(),
		Purchases: NewPurchaseLedger(),
	}
	slog.Info("in-memory storage is ready", "op", op)
	return s
}

// Close drops every repository's state.
func (s Storage) Close() {
	const op = "Storage.Close"
	log := slog.With("op", op)

	log.Info("closing in-memory storage...")

	nProducts := s.Products.reset()
	nReviews := s.Reviews.reset()
	nCarts := s.Carts.reset()
	nWishlists := s.Wishlists.reset()
	nLedgers := s.Purchases.reset()

	log.Info("in-memory storage is closed",
		"nProducts", nProducts, "nReviews", nReviews, "nCarts", nCarts,
		"nWishlists", nWishlists, "nLedgers", nLedgers)
}
