package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
)

type langKey struct{}

// Language picks the report language from ?lang= or the Accept-Language header.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.Match(r.Header.Get("Accept-Language"))
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.Parse(q)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), langKey{}, lang)))
	})
}

// LanguageFromContext returns the language Language chose, or English.
func LanguageFromContext(ctx context.Context) i18n.Lang {
	if lang, ok := ctx.Value(langKey{}).(i18n.Lang); ok {
		return lang
	}
	return i18n.English
}
