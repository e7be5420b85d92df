package jwt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

// Claims is what an access token carries.
type Claims struct {
	TokenID      string
	Username     string
	IsAdmin      bool
	BackendToken string
	ExpiresAt    time.Time
}

type Service interface {
	GenerateAccessToken(username string, isAdmin bool, backendToken string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(tokenID string, expiresAt time.Time)
	IsTokenRevoked(tokenID string) bool
	PurgeRevoked(now time.Time) int
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) *JWTService {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(username string, isAdmin bool, backendToken string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"jti":      uuid.NewString(),
		"sub":      username,
		"username": username,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      expiresAt,
	}
	if backendToken != "" {
		claims["backend_token"] = backendToken
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blocks tokenID until expiresAt, after which the token is dead anyway.
func (j *JWTService) RevokeToken(tokenID string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[tokenID] = expiresAt.Unix()
}

func (j *JWTService) IsTokenRevoked(tokenID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[tokenID]
	return revoked
}

// PurgeRevoked forgets revocations of tokens that expired before now.
func (j *JWTService) PurgeRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	purged := 0
	for id, exp := range j.revokedTokens {
		if exp < now.Unix() {
			delete(j.revokedTokens, id)
			purged++
		}
	}
	return purged
}

// ClaimsFromMap reads Claims out of the map jwtauth.FromContext returns.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	var c Claims

	if t, _ := m["type"].(string); t != "access" {
		return c, ErrInvalidClaims
	}

	c.TokenID, _ = m["jti"].(string)
	c.Username, _ = m["username"].(string)
	c.IsAdmin, _ = m["is_admin"].(bool)
	c.BackendToken, _ = m["backend_token"].(string)
	if c.TokenID == "" || c.Username == "" {
		return c, ErrInvalidClaims
	}

	switch exp := m["exp"].(type) {
	case time.Time:
		c.ExpiresAt = exp
	case float64:
		c.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		c.ExpiresAt = time.Unix(exp, 0)
	}

	return c, nil
}

// ParseToken decodes and verifies a raw token string.
func (j *JWTService) ParseToken(tokenString string) (Claims, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return Claims{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(claims)
}
