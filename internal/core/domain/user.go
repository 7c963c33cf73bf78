package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of principals the marketplace knows about.
type Role string

const (
	RoleSolver     Role = "SOLVER"
	RoleChallenger Role = "CHALLENGER"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole normalises casing and surrounding whitespace. Values outside the
// closed set are rejected rather than propagated.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSolver, RoleChallenger, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Identity is the authenticated principal as issued by the identity service.
// It is never mutated; a new login replaces it wholesale.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Valid reports whether the payload can be trusted as a session identity.
func (i *Identity) Valid() bool {
	return i != nil && i.ID != "" && i.Role.IsValid()
}

// HasRole reports whether the identity's role is one of roles.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// User models a stored account on the identity service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the account onto the public session identity.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
