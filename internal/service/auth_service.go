package service

import (
	"context"
	"log/slog"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/storage"
)

// AuthService exchanges credentials for token pairs and refreshes or
// verifies existing tokens. Token signing itself is delegated to the
// JWT manager.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Login authenticates the credentials and returns an access and refresh
// token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	if username == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("Login failed", "username", username)
		return nil, auth.ErrInvalidCredentials
	}

	pair, err := s.jwtManager.GeneratePair(user)
	if err != nil {
		slog.Error("Failed to generate tokens", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// subject must still exist; deleted accounts cannot refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtManager.ValidateRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	return s.jwtManager.GenerateAccess(user)
}

// Verify reports whether the given token (of either type) is valid.
func (s *AuthService) Verify(token string) error {
	_, err := s.jwtManager.Validate(token)
	return err
}
