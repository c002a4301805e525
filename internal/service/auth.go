package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitebooks/sitebooks/internal/auth"
	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/logging"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users      userRepository
	tokens     refreshTokenRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users userRepository, tokens refreshTokenRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("Login: %w", domain.ErrNotFound)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("Login: %w", err)
	}

	logging.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return pair, user, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// pair is issued. A revoked or expired token is rejected outright.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenPair, *domain.User, error) {
	stored, err := s.tokens.GetByHash(ctx, auth.HashRefreshToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("Refresh: %w", domain.ErrInvalidRefreshToken)
		}
		return nil, nil, fmt.Errorf("Refresh: %w", err)
	}

	now := time.Now().UTC()
	if stored.RevokedAt != nil || now.After(stored.ExpiresAt) {
		return nil, nil, fmt.Errorf("Refresh: %w", domain.ErrInvalidRefreshToken)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("Refresh: %w", err)
	}

	if err := s.tokens.Revoke(ctx, stored.ID, now); err != nil {
		return nil, nil, fmt.Errorf("Refresh: revoke: %w", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("Refresh: %w", err)
	}
	return pair, user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issueTokens: %w", err)
	}

	raw, hash, err := auth.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issueTokens: %w", err)
	}

	now := time.Now().UTC()
	record := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("issueTokens: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: raw}, nil
}
