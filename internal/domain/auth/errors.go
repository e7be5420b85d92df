package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrAccountNotFound    = errors.New("account not found")
	ErrBackendUnavailable = errors.New("authentication backend unavailable")

	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrForbidden              = errors.New("access to another user's data is not allowed")
)
