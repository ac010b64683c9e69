package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST /login JSON {"username", "password"} (200 OK, 401 Unauthorized)

type LoginHandler struct {
	authenticator port.Authenticator
}

func RegisterLogin(r chi.Router, a port.Authenticator) {
	h := LoginHandler{a}
	r.Post("/login", h.Login)
}

func (h LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "LoginHandler.Login"
	log := slog.With("op", op)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
}

// GET / and GET /admin greet the resolved caller.

func RegisterGreetings(r chi.Router) {
	r.Get("/", greetUser)
	r.With(RequireAdmin).Get("/admin", greetAdmin)
}

func greetUser(w http.ResponseWriter, r *http.Request) {
	msg := fmt.Sprintf("hello, you are logged in as %q", caller(r).Username)
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func greetAdmin(w http.ResponseWriter, r *http.Request) {
	msg := fmt.Sprintf("welcome, admin %q", caller(r).Username)
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}
