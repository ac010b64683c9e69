package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrValidation   = errors.New("validation failed")
)

// A NotFoundError names the missing entity. It matches [ErrNotFound].
type NotFoundError struct {
	Entity string
	ID     int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s id=%d: %s", e.Entity, e.ID, ErrNotFound)
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}
