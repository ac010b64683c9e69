package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	_ port.Authenticator    = (*TokenAuthority)(nil)
	_ port.IdentityResolver = (*TokenAuthority)(nil)
)

var ErrNoSecret = errors.New("token secret is empty")

type claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// A TokenAuthority checks static accounts and issues signed session tokens.
//
// The password is only compared at login and is never part of a token.
type TokenAuthority struct {
	accounts map[string]domain.UserAccount
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

type Opt func(*TokenAuthority)

func ClockOpt(now func() time.Time) Opt {
	return func(a *TokenAuthority) { a.now = now }
}

func NewTokenAuthority(
	secret string, ttl time.Duration, accounts []domain.UserAccount, opts ...Opt,
) (*TokenAuthority, error) {
	const op = "NewTokenAuthority"

	if secret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSecret)
	}

	a := &TokenAuthority{
		accounts: make(map[string]domain.UserAccount, len(accounts)),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, acc := range accounts {
		if !acc.Role.Valid() {
			return nil, fmt.Errorf(
				"%s: account %q: invalid role %q", op, acc.Username, acc.Role,
			)
		}
		a.accounts[acc.Username] = acc
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *TokenAuthority) Login(
	ctx context.Context, username, password string,
) (string, error) {
	const op = "TokenAuthority.Login"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	acc, ok := a.accounts[username]
	if !ok || subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) != 1 {
		log.Warn("invalid credentials", "username", username)
		return "", fmt.Errorf("%s: %w: invalid username or password", op, domain.ErrUnauthorized)
	}

	now := a.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Role: acc.Role,
	})

	token, err := t.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("token issued", "username", acc.Username)
	return token, nil
}

// ResolveIdentity verifies token and returns the caller it was issued to.
// The account must still exist; its current role wins over the token's.
func (a *TokenAuthority) ResolveIdentity(
	ctx context.Context, token string,
) (domain.Identity, error) {
	const op = "TokenAuthority.ResolveIdentity"

	if err := ctx.Err(); err != nil {
		return domain.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s: %w: %w", op, domain.ErrUnauthorized, err)
	}

	acc, ok := a.accounts[c.Subject]
	if !ok {
		return domain.Identity{}, fmt.Errorf(
			"%s: %w: unknown subject %q", op, domain.ErrUnauthorized, c.Subject,
		)
	}
	return domain.Identity{Username: acc.Username, Role: acc.Role}, nil
}

func (a *TokenAuthority) keyFunc(*jwt.Token) (any, error) {
	return a.secret, nil
}
