package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/backend"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/jwt"
)

type claimsKey struct{}

// AuthRequired rejects requests without a valid, unrevoked access token. The
// parsed claims and an upstream session restored from the token are attached
// to the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, raw, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwt.ClaimsFromMap(raw)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if jwtService.IsTokenRevoked(claims.TokenID) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			if claims.BackendToken != "" {
				ctx = backend.WithSession(ctx, backend.RestoreSession(claims.BackendToken))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// ClaimsFromContext returns the claims AuthRequired attached.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return claims, ok
}
