package middleware

import (
	"fmt"
	"net/http"
)

// SecurityHeaders sets baseline response headers. The CSP allows inline
// scripts only when they carry the request nonce.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		scriptSrc := "'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
		}
		h.Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'self'; script-src %s; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self' https://accounts.google.com https://github.com; frame-ancestors 'none'",
			scriptSrc,
		))

		next.ServeHTTP(w, r)
	})
}
