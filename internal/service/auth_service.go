package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kam-ticket/helpdesk-service/internal/auth"
	"github.com/kam-ticket/helpdesk-service/internal/config"
	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// AuthService issues and revokes bearer tokens. Token auth is the
// single strategy; there is no server-side session state beyond the
// revocation denylist.
type AuthService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	revoker auth.TokenRevoker
	cfg     config.AuthConfig
}

// AuthDependencies bundles collaborators.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Revoker  auth.TokenRevoker
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:   deps.UserRepo,
		tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		revoker: deps.Revoker,
		cfg:     cfg,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginResult carries the issued token and its timestamps.
type LoginResult struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	User      *domain.User
}

// Signup registers an account with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already in use", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	hashed, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hashed,
		Role:         "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{
		Token:     token,
		IssuedAt:  expiresAt.Add(-s.tokens.TTL()),
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout denylists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	if s.revoker == nil {
		return nil
	}
	claims, err := s.tokens.ParseToken(tokenStr)
	if err != nil {
		// Already invalid tokens need no revocation.
		return nil
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, until); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
