package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Services are the core ports served over HTTP.
type Services struct {
	Catalog   port.Catalog
	Reviews   port.Reviews
	Cart      port.Cart
	Wishlist  port.Wishlist
	Purchases port.Purchases
}

// NewRouter mounts every route.
//
// POST /login is public, everything else requires a bearer token.
func NewRouter(
	allowedOrigins []string,
	authenticator port.Authenticator,
	resolver port.IdentityResolver,
	s Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(AllowJSON)

	RegisterLogin(r, authenticator)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(resolver))
		RegisterGreetings(r)
		RegisterProducts(r, s.Catalog)
		RegisterReviews(r, s.Reviews)
		RegisterCart(r, s.Cart)
		RegisterWishlist(r, s.Wishlist)
		RegisterPurchases(r, s.Purchases)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeError maps core failures onto status codes.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var nf domain.NotFoundError
	switch {
	case errors.As(err, &nf):
		log.Warn("not found", "err", err)
		writeDetail(w, http.StatusNotFound, nf.Error())
	case errors.Is(err, domain.ErrNotFound):
		log.Warn("not found", "err", err)
		writeDetail(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		log.Warn("unauthorized", "err", err)
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrForbidden):
		log.Warn("forbidden", "err", err)
		writeDetail(w, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		log.Warn("empty cart", "err", err)
		writeDetail(w, http.StatusBadRequest, domain.ErrEmptyCart.Error())
	case errors.Is(err, domain.ErrValidation):
		log.Warn("invalid request", "err", err)
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("unexpected error", "err", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("invalid JSON data")
	}
	return nil
}

// idParam reads a positive integer path parameter.
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, invalid("%s must be a positive integer", name)
	}
	return id, nil
}

func caller(r *http.Request) domain.Identity {
	id, _ := IdentityFrom(r.Context())
	return id
}
