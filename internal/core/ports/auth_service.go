package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// RegisterInput carries a sign-up request. Role is already normalised.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login authenticates any role and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// AdminLogin only authenticates ADMIN accounts.
	AdminLogin(ctx context.Context, email, password string) (string, *domain.User, error)
	// AdminRegister creates an ADMIN account when secret matches the configured one.
	AdminRegister(ctx context.Context, in RegisterInput, secret string) (*domain.User, error)
	// Me resolves the identity behind a session subject; a missing account is not an error.
	Me(ctx context.Context, userID string) (*domain.User, error)
}
