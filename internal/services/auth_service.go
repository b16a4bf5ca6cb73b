package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/security"
)

// AuthService verifies credentials against stored hashes and issues signed
// tokens for the resulting principal.
type AuthService struct {
	users  repository.UserRepository
	hasher *security.PasswordHasher
	codec  *security.TokenCodec
}

func NewAuthService(users repository.UserRepository, hasher *security.PasswordHasher, codec *security.TokenCodec) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec}
}

// Authenticate resolves an email/password pair into a principal. Every
// failure cause (unknown email, wrong password, unusable account) yields
// the same ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*security.Principal, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled || user.AccountLocked || user.AccountExpired || user.CredentialsExpired {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	role, ok := security.ParseRole(user.Role)
	if !ok {
		slog.Error("account carries unknown role", "user_id", user.ID, "role", user.Role)
		return nil, ErrInvalidCredentials
	}

	return &security.Principal{Subject: user.Email, UserID: user.ID, Role: role}, nil
}

// Login authenticates and signs a token for the principal.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	principal, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := s.codec.Sign(principal.Subject, principal.UserID, principal.Role)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign token: %w", ErrOperationFailed, err)
	}
	return token, nil
}
