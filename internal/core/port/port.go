package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Inbound ports, implemented by the core service.

type Catalog interface {
	AddProduct(context.Context, domain.Role, domain.ProductDraft) (domain.Product, error)
	UpdateProduct(context.Context, domain.Role, int, domain.ProductDraft) (domain.Product, error)
	DeleteProduct(context.Context, domain.Role, int) (domain.Product, error)
	Product(context.Context, int) (domain.Product, error)
	ListProducts(context.Context, domain.ProductFilter, domain.SortKey) ([]domain.Product, error)
}

type Reviews interface {
	AddReview(ctx context.Context, caller string, r domain.Review) error
	ProductReviews(ctx context.Context, productID int) ([]domain.Review, error)
}

type Cart interface {
	AddCartItem(ctx context.Context, username string, productID, quantity int) (domain.Cart, error)
	Cart(ctx context.Context, username string) (domain.Cart, error)
	RemoveCartItem(ctx context.Context, username string, productID int) (domain.Cart, error)
	Checkout(ctx context.Context, username string) (domain.Receipt, error)
}

type Wishlist interface {
	AddToWishlist(ctx context.Context, username string, productID int) error
	RemoveFromWishlist(ctx context.Context, username string, productID int) error
	Wishlist(ctx context.Context, username string) ([]domain.Product, error)
}

type Purchases interface {
	PurchaseHistory(ctx context.Context, username string) ([]domain.PurchaseRecord, error)
}

// Boundary collaborators.

type Authenticator interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (domain.Identity, error)
}

// Outbound ports, implemented by adapters.

type ProductsStorage interface {
	InsertProduct(domain.ProductDraft) domain.Product
	ReplaceProduct(int, domain.ProductDraft) (domain.Product, error)
	DeleteProduct(int) (domain.Product, error)
	Product(int) (domain.Product, error)
	Products() []domain.Product

	// ProductsSnapshot resolves all ids under a single read of the catalog.
	ProductsSnapshot(ids []int) (map[int]domain.Product, error)
}

type ReviewsStorage interface {
	AppendReview(domain.Review)
	ReviewsByProduct(productID int) []domain.Review
}

type CartsStorage interface {
	Cart(username string) domain.Cart
	SaveCart(username string, c domain.Cart)
}

type WishlistsStorage interface {
	AddWishlistItem(username string, productID int)
	RemoveWishlistItem(username string, productID int) bool
	WishlistItems(username string) map[int]struct{}
}

type PurchaseLedger interface {
	AppendPurchases(username string, rs []domain.PurchaseRecord)
	PurchaseHistory(username string) []domain.PurchaseRecord
}

type PurchaseEmitter interface {
	EmitPurchase(context.Context, domain.PurchaseCompleted) error
}
