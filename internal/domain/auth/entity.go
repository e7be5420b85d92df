package auth

import "time"

// Account is a locally stored login used when no upstream backend signs in.
type Account struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is who a successful login resolved to.
type Identity struct {
	Username string
	IsAdmin  bool
	// BackendToken is the upstream bearer token; empty for local accounts.
	BackendToken string
}
