package auth

import "context"

// AccountRepository reads local accounts.
type AccountRepository interface {
	// GetByUsername returns ErrAccountNotFound for unknown usernames
	GetByUsername(ctx context.Context, username string) (Account, error)
}

// Authenticator resolves credentials to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
}
