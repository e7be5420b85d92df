package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/backend"
)

// UpstreamAuthenticator signs users in against the REST backend. Each login
// gets its own session; nothing is shared between callers.
type UpstreamAuthenticator struct {
	client backend.Authenticator
}

func NewUpstreamAuthenticator(client backend.Authenticator) auth.Authenticator {
	return &UpstreamAuthenticator{client: client}
}

func (a *UpstreamAuthenticator) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	session := backend.NewSession(a.client)
	if err := session.Login(ctx, username, password); err != nil {
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			return auth.Identity{}, auth.ErrInvalidCredentials
		case errors.Is(err, backend.ErrUnavailable):
			return auth.Identity{}, fmt.Errorf("%w: %v", auth.ErrBackendUnavailable, err)
		}
		return auth.Identity{}, fmt.Errorf("upstream login: %w", err)
	}

	user := session.User()
	if user == nil || user.Token == "" {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	return auth.Identity{
		Username:     user.Username,
		IsAdmin:      user.IsAdmin,
		BackendToken: user.Token,
	}, nil
}

// LocalAuthenticator checks bcrypt hashes stored in the database mirror.
type LocalAuthenticator struct {
	accounts auth.AccountRepository
}

func NewLocalAuthenticator(accounts auth.AccountRepository) auth.Authenticator {
	return &LocalAuthenticator{accounts: accounts}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	account, err := a.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return auth.Identity{}, auth.ErrInvalidCredentials
		}
		return auth.Identity{}, fmt.Errorf("failed to get account by username: %w", err)
	}

	if account.PasswordHash == "" {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	return auth.Identity{Username: account.Username, IsAdmin: account.IsAdmin}, nil
}
