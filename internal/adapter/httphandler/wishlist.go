package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET /wishlist (200 OK)
// POST /wishlist JSON {"product_id"} (200 OK, 400 Bad request)
// DELETE /wishlist/{product_id} (200 OK, 404 Not found)

type WishlistHandler struct {
	wishlist port.Wishlist
}

func RegisterWishlist(r chi.Router, wishlist port.Wishlist) {
	h := WishlistHandler{wishlist}
	r.Get("/wishlist", h.GetWishlist)
	r.Post("/wishlist", h.PostItem)
	r.Delete("/wishlist/{product_id}", h.DeleteItem)
}

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.GetWishlist"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	ps, err := h.wishlist.Wishlist(r.Context(), username)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, WishlistResponse{Wishlist: toProductDTOs(ps)})
}

func (h WishlistHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.PostItem"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	var req WishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.ProductID < 1 {
		writeError(w, log, invalid("product_id must be a positive integer"))
		return
	}

	if err := h.wishlist.AddToWishlist(r.Context(), username, req.ProductID); err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "added to wishlist"})
}

func (h WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.DeleteItem"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	productID, err := idParam(r, "product_id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	err = h.wishlist.RemoveFromWishlist(r.Context(), username, productID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "removed from wishlist"})
}
