package service

import (
	"context"
	"time"

	"github.com/spec-kit/support-copilot/internal/auth"
	"github.com/spec-kit/support-copilot/internal/config"
	"github.com/spec-kit/support-copilot/internal/domain"
	"github.com/spec-kit/support-copilot/internal/repository"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// AuthService coordinates executive login.
type AuthService struct {
	executives repository.ExecutiveRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, executives repository.ExecutiveRepository) *AuthService {
	return &AuthService{
		executives: executives,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an executive and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.SupportExecutive, string, time.Time, error) {
	exec, err := s.executives.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(exec.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(exec)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return exec, token, exp, nil
}

// Register creates a new executive account with a hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.ExecutiveRole) (*domain.SupportExecutive, error) {
	if _, err := s.executives.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	exec := &domain.SupportExecutive{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.executives.Create(ctx, exec); err != nil {
		return nil, apperrors.MapError(err)
	}
	return exec, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
