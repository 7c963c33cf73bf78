package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const minPasswordLength = 6

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements registration, login and session resolution.
type AuthService struct {
	repo        ports.AuthRepository
	jwtSecret   string
	adminSecret string
	tokenTTL    time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret, adminSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, adminSecret: adminSecret, tokenTTL: tokenTTL}
}

// Register creates a SOLVER or CHALLENGER account. Role defaults to SOLVER;
// admin accounts only come from AdminRegister.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleSolver
	}
	if in.Role == domain.RoleAdmin {
		return nil, domain.NewValidationError("role", "role must be one of: SOLVER CHALLENGER")
	}
	return s.create(ctx, in)
}

// AdminRegister creates an ADMIN account guarded by a shared secret.
func (s *AuthService) AdminRegister(ctx context.Context, in ports.RegisterInput, secret string) (*domain.User, error) {
	if s.adminSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		return nil, domain.ErrForbidden
	}
	in.Role = domain.RoleAdmin
	return s.create(ctx, in)
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normaliseEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.NewValidationError("fields", "name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "password must be at least 6 characters")
	}
	if !in.Role.IsValid() {
		return nil, domain.NewValidationError("role", "invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// AdminLogin rejects any non-ADMIN account with ErrInvalidCredentials so the
// endpoint does not reveal which emails belong to regular users.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if user.Role != domain.RoleAdmin {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("fields", "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
