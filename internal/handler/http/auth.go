package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/backend"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		slog.Error("Login validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully")
	response.Created(w, "User logged in successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	err := a.authService.Logout(r.Context(), auth.LogoutRequest{
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
	if err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if session, ok := backend.SessionFromContext(r.Context()); ok {
		session.Logout()
	}

	slog.Info("User logged out successfully", "username", claims.Username)
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}
