package backend

import (
	"context"
	"sync"
)

// Session is an explicit upstream login. It is created per caller and carried
// through context instead of living in shared client state.
type Session interface {
	Login(ctx context.Context, username, password string) error
	Logout()
	CurrentToken() string
}

// Authenticator exchanges credentials for an upstream token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// TokenSession is a Session backed by a bearer token.
type TokenSession struct {
	mu    sync.RWMutex
	auth  Authenticator
	token string
	user  *LoginResult
}

// NewSession returns an empty session that logs in through auth.
func NewSession(auth Authenticator) *TokenSession {
	return &TokenSession{auth: auth}
}

// RestoreSession rebuilds a session from a token issued earlier.
func RestoreSession(token string) *TokenSession {
	return &TokenSession{token: token}
}

func (s *TokenSession) Login(ctx context.Context, username, password string) error {
	if s.auth == nil {
		return ErrNoAuthenticator
	}
	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = res.Token
	s.user = res
	s.mu.Unlock()
	return nil
}

func (s *TokenSession) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *TokenSession) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the account of the last successful Login, if any.
func (s *TokenSession) User() *LoginResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

type sessionKey struct{}

// WithSession attaches s to ctx for the client to pick up.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session attached to ctx.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}
