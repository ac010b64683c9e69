package domain

import "fmt"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// An Identity is a resolved caller.
type Identity struct {
	Username string
	Role     Role
}

type UserAccount struct {
	Username string
	Password string
	Role     Role
}

// RequireAdmin reports [ErrForbidden] for any role other than [RoleAdmin].
func RequireAdmin(role Role) error {
	if role != RoleAdmin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
