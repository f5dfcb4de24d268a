package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/templui/authgate/internal/ctxkeys"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// PublicPaths are reachable without a session. Matching is exact.
var PublicPaths = map[string]bool{
	"/":                      true,
	LoginPath:                true,
	"/register":              true,
	"/api/auth/verify-email": true,
}

// handshakePrefix holds the OAuth and logout routes, which run before a
// session exists or while it is being torn down.
const handshakePrefix = "/auth/"

// RouteGuard redirects anonymous requests for non-public paths to the login page.
// It only checks that a session is present; roles are checked by RequireRole.
func RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Guarded(r.URL.Path) || PublicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		if ctxkeys.Session(r.Context()) == nil {
			redirect(w, r, LoginPath)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Guarded reports whether the route guard evaluates urlPath at all.
// Static files (any last segment with a dot) and handshake routes are skipped.
func Guarded(urlPath string) bool {
	return !strings.HasPrefix(urlPath, handshakePrefix) && !isStaticPath(urlPath)
}

func isStaticPath(urlPath string) bool {
	return strings.HasPrefix(urlPath, "/assets/") || strings.Contains(path.Base(urlPath), ".")
}

// RequireRole runs next only when the session holds role; otherwise denied
// renders in place. It never redirects.
func RequireRole(role string, denied, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := ctxkeys.Session(r.Context())
		if !session.HasRole(role) {
			denied(w, r)
			return
		}
		next(w, r)
	}
}

// RequireGuest sends signed-in users to the dashboard.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) != nil {
			redirect(w, r, DashboardPath)
			return
		}
		next(w, r)
	}
}

// redirect issues a 303, or an HX-Redirect header for htmx requests so the
// whole page navigates.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
