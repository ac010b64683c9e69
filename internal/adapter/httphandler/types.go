package httphandler

import (
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	ErrorResponse struct {
		Detail string `json:"detail"`
	}
)

type (
	ProductRequest struct {
		Name        string           `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Category    string           `json:"category"`
		Description string           `json:"description"`
	}

	Product struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Category    string          `json:"category,omitempty"`
		Description string          `json:"description,omitempty"`
	}

	ProductResponse struct {
		Message string  `json:"message"`
		Product Product `json:"product"`
	}

	ProductsResponse struct {
		Products []Product `json:"products"`
	}
)

type (
	Review struct {
		ProductID int    `json:"product_id"`
		Username  string `json:"username"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment,omitempty"`
	}

	ReviewsResponse struct {
		Reviews []Review `json:"reviews"`
	}
)

type (
	CartItemRequest struct {
		ProductID int  `json:"product_id"`
		Quantity  *int `json:"quantity"`
	}

	CartItem struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}

	CartResponse struct {
		Cart []CartItem `json:"cart"`
	}

	PurchaseRecord struct {
		ProductID  int             `json:"product_id"`
		Quantity   int             `json:"quantity"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}

	CheckoutResponse struct {
		Message   string           `json:"message"`
		OrderID   string           `json:"order_id"`
		Total     decimal.Decimal  `json:"total"`
		Purchases []PurchaseRecord `json:"purchases"`
	}

	PurchasesResponse struct {
		Purchases []PurchaseRecord `json:"purchases"`
	}
)

type (
	WishlistRequest struct {
		ProductID int `json:"product_id"`
	}

	WishlistResponse struct {
		Wishlist []Product `json:"wishlist"`
	}
)

func toProductDTO(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
	}
}

func toProductDTOs(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = toProductDTO(p)
	}
	return vs
}

func toReviewDTOs(rs []domain.Review) []Review {
	vs := make([]Review, len(rs))
	for i, r := range rs {
		vs[i] = Review{
			ProductID: r.ProductID,
			Username:  r.Username,
			Rating:    r.Rating,
			Comment:   r.Comment,
		}
	}
	return vs
}

func toCartDTO(c domain.Cart) []CartItem {
	vs := make([]CartItem, len(c))
	for i, it := range c {
		vs[i] = CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return vs
}

func toPurchaseDTOs(rs []domain.PurchaseRecord) []PurchaseRecord {
	vs := make([]PurchaseRecord, len(rs))
	for i, r := range rs {
		vs[i] = PurchaseRecord{
			ProductID:  r.ProductID,
			Quantity:   r.Quantity,
			TotalPrice: r.TotalPrice,
		}
	}
	return vs
}
