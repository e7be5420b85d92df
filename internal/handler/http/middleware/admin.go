package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !claims.IsAdmin {
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
