package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeDetail(w, http.StatusUnsupportedMediaType, "invalid media type")
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

type identityKey struct{}

// IdentityFrom returns the caller stored by [Authenticate].
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// Authenticate resolves the bearer token and rejects anonymous requests.
func Authenticate(ir port.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "httphandler.Authenticate"

			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeError(w, slog.With("op", op), domain.ErrUnauthorized)
				return
			}

			id, err := ir.ResolveIdentity(r.Context(), token)
			if err != nil {
				writeError(w, slog.With("op", op), err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hf)
	}
}

// RequireAdmin must run after [Authenticate].
func RequireAdmin(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "httphandler.RequireAdmin"

		id, _ := IdentityFrom(r.Context())
		if err := domain.RequireAdmin(id.Role); err != nil {
			writeError(w, slog.With("op", op, "username", id.Username), err)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}
