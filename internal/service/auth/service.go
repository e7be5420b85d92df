package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	authenticator auth.Authenticator
	jwt.Service
}

func NewAuthService(authenticator auth.Authenticator, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		authenticator: authenticator,
		Service:       jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	identity, err := a.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(identity.Username, identity.IsAdmin, identity.BackendToken)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("user logged in", "username", identity.Username, "is_admin", identity.IsAdmin)
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		Username:             identity.Username,
		IsAdmin:              identity.IsAdmin,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.TokenID == "" {
		return auth.ErrInvalidToken
	}
	if a.Service.IsTokenRevoked(req.TokenID) {
		return auth.ErrTokenRevoked
	}
	a.Service.RevokeToken(req.TokenID, time.Unix(req.ExpiresAt, 0))
	return nil
}
