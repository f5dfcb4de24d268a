package middleware

import (
	"net/http"

	"github.com/templui/authgate/internal/ctxkeys"
)

// WithURLPath records the request path so the layout can mark the active nav link.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
