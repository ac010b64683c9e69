package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET /cart (200 OK)
// POST /cart JSON {"product_id", "quantity"} (200 OK, 400 Bad request)
// DELETE /cart/{product_id} (200 OK, 404 Not found)
// POST /cart/checkout (200 OK, 400 empty cart, 404 deleted product)
// GET /purchases (200 OK)

type CartHandler struct {
	cart port.Cart
}

func RegisterCart(r chi.Router, cart port.Cart) {
	h := CartHandler{cart}
	r.Get("/cart", h.GetCart)
	r.Post("/cart", h.PostItem)
	r.Delete("/cart/{product_id}", h.DeleteItem)
	r.Post("/cart/checkout", h.Checkout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	c, err := h.cart.Cart(r.Context(), username)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{Cart: toCartDTO(c)})
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	var req CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.ProductID < 1 {
		writeError(w, log, invalid("product_id must be a positive integer"))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		writeError(w, log, invalid(
			"quantity must be between 1 and %d", domain.MaxLineQuantity,
		))
		return
	}

	c, err := h.cart.AddCartItem(r.Context(), username, req.ProductID, quantity)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{Cart: toCartDTO(c)})
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	productID, err := idParam(r, "product_id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	c, err := h.cart.RemoveCartItem(r.Context(), username, productID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{Cart: toCartDTO(c)})
}

func (h CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Checkout"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	receipt, err := h.cart.Checkout(r.Context(), username)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		Message:   receipt.Message,
		OrderID:   receipt.OrderID,
		Total:     receipt.Total,
		Purchases: toPurchaseDTOs(receipt.Records),
	})
}

type PurchasesHandler struct {
	purchases port.Purchases
}

func RegisterPurchases(r chi.Router, purchases port.Purchases) {
	h := PurchasesHandler{purchases}
	r.Get("/purchases", h.GetPurchases)
}

func (h PurchasesHandler) GetPurchases(w http.ResponseWriter, r *http.Request) {
	const op = "PurchasesHandler.GetPurchases"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	rs, err := h.purchases.PurchaseHistory(r.Context(), username)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, PurchasesResponse{Purchases: toPurchaseDTOs(rs)})
}
