package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST /reviews JSON Review (200 OK, 400, 403, 404)
// GET /products/{id}/reviews (200 OK)

type ReviewsHandler struct {
	reviews port.Reviews
}

func RegisterReviews(r chi.Router, reviews port.Reviews) {
	h := ReviewsHandler{reviews}
	r.Post("/reviews", h.PostReview)
	r.Get("/products/{id}/reviews", h.GetReviews)
}

func (h ReviewsHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.PostReview"
	username := caller(r).Username
	log := slog.With("op", op, "username", username)

	var req Review
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.ProductID < 1 {
		writeError(w, log, invalid("product_id must be a positive integer"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, log, invalid("rating must be between 1 and 5"))
		return
	}

	err := h.reviews.AddReview(r.Context(), username, domain.Review{
		ProductID: req.ProductID,
		Username:  req.Username,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "review saved"})
}

func (h ReviewsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	const op = "ReviewsHandler.GetReviews"
	log := slog.With("op", op)

	productID, err := idParam(r, "id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	rs, err := h.reviews.ProductReviews(r.Context(), productID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ReviewsResponse{Reviews: toReviewDTOs(rs)})
}
