package navigation

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/portal/remote"
)

// AdminDeniedMessage is shown when a non-admin account uses the admin form.
const AdminDeniedMessage = "You are not authorized as an admin."

// Authenticator is the login half of the identity service.
type Authenticator interface {
	Login(ctx context.Context, creds remote.Credentials) (*domain.Identity, error)
	AdminLogin(ctx context.Context, creds remote.Credentials) (*domain.Identity, error)
}

// SessionWriter stores a freshly issued identity.
type SessionWriter interface {
	Login(id *domain.Identity) error
}

// LoginFlow runs the login forms and tells the caller where to go next.
type LoginFlow struct {
	auth     Authenticator
	session  SessionWriter
	resolver *Resolver
	log      zerolog.Logger
}

func NewLoginFlow(auth Authenticator, s SessionWriter, resolver *Resolver, log zerolog.Logger) *LoginFlow {
	return &LoginFlow{auth: auth, session: s, resolver: resolver, log: log}
}

// Login authenticates, stores the identity and resolves the destination.
func (f *LoginFlow) Login(ctx context.Context, creds remote.Credentials) (string, error) {
	id, err := f.auth.Login(ctx, creds)
	if err != nil {
		return "", err
	}
	if err := f.session.Login(id); err != nil {
		return "", err
	}
	dest := f.resolver.AfterLogin(id)
	f.log.Info().Str("user_id", id.ID).Str("role", id.Role.String()).Str("destination", dest).Msg("logged in")
	return dest, nil
}

// AdminLogin only accepts ADMIN identities; anything else leaves the session
// untouched and fails with domain.ErrNotAdmin. A remembered admin path is
// honoured, any other intent is dropped.
func (f *LoginFlow) AdminLogin(ctx context.Context, creds remote.Credentials) (string, error) {
	id, err := f.auth.AdminLogin(ctx, creds)
	if err != nil {
		return "", err
	}
	if !id.HasRole(domain.RoleAdmin) {
		f.log.Warn().Str("user_id", id.ID).Str("role", id.Role.String()).Msg("admin login with non-admin account")
		return "", domain.ErrNotAdmin
	}
	if err := f.session.Login(id); err != nil {
		return "", err
	}

	dest := PathAdminDashboard
	if path, ok := f.resolver.intent.Consume(); ok {
		if safe, ok := sanitizePath(path); ok && strings.HasPrefix(safe, "/admin/") {
			dest = safe
		}
	}
	f.log.Info().Str("user_id", id.ID).Str("destination", dest).Msg("admin logged in")
	return dest, nil
}

// UserMessage turns a login error into text for the form.
func UserMessage(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotAdmin):
		return AdminDeniedMessage
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.As(err, &ve):
		return ve.Error()
	}
	return "Something went wrong. Please try again."
}
