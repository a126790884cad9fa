package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sampleapp/internal/auth"
	apperrors "sampleapp/internal/errors"
	"sampleapp/internal/model"
	"sampleapp/internal/repository"
)

// AuthService handles credential checks, remember-me tokens and API tokens.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	UserByID(ctx context.Context, id uint) (*model.User, error)
	Remember(ctx context.Context, user *model.User) (string, error)
	Forget(ctx context.Context, user *model.User) error
	Remembered(ctx context.Context, id uint, token string) (*model.User, error)
	IssueAccessToken(ctx context.Context, email, password string) (token string, user *model.User, err error)
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
	RevokeAccessToken(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.Hasher
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	log        logrus.FieldLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.Hasher,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	log logrus.FieldLogger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		tokenStore: tokenStore,
		log:        log,
	}
}

// Authenticate returns the user owning email when password matches. Every
// failure, including an unknown email, is ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Authenticate(password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// UserByID loads a user straight from the store, digests included.
func (s *authService) UserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// Remember issues a fresh remember token, persists its digest and returns the
// raw token for the client.
func (s *authService) Remember(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}
	digest, err := s.hasher.Digest(token)
	if err != nil {
		return "", fmt.Errorf("digest remember token: %w", err)
	}
	if err := s.userRepo.UpdateRememberDigest(ctx, user.ID, &digest); err != nil {
		return "", notFound(err)
	}
	user.RememberDigest = &digest
	return token, nil
}

// Forget clears the remember digest so outstanding remember cookies stop working.
func (s *authService) Forget(ctx context.Context, user *model.User) error {
	if err := s.userRepo.UpdateRememberDigest(ctx, user.ID, nil); err != nil {
		return notFound(err)
	}
	user.RememberDigest = nil
	return nil
}

// Remembered returns the user whose remember digest matches token.
func (s *authService) Remembered(ctx context.Context, id uint, token string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Authenticated(model.DigestRemember, token) {
		return nil, apperrors.ErrInvalidToken
	}
	return user, nil
}

// IssueAccessToken authenticates and returns a short-lived API token.
func (s *authService) IssueAccessToken(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	tokenID, token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "token_id": tokenID}).Info("access token issued")
	return token, user, nil
}

// ValidateAccessToken checks signature, expiry and the revocation list.
func (s *authService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RevokeAccessToken denylists the token for the rest of its lifetime.
func (s *authService) RevokeAccessToken(ctx context.Context, claims *auth.Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.tokenStore.Revoke(ctx, claims.ID, ttl)
}
