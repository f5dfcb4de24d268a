package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/service"
)

// AuthMiddleware resolves the session cookie once per request and places the
// session and its user on the request context. Invalid or stale cookies are
// cleared and the request continues anonymously.
func AuthMiddleware(sessionService *service.SessionService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionService.Parse(cookie.Value)
			if err != nil {
				sessionService.ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(r.Context(), session.UserID)
			if err != nil {
				slog.Debug("session user lookup failed", "error", err, "user_id", session.UserID)
				sessionService.ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = nil

			// The store is authoritative for role and email
			session = &model.Session{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			ctx = ctxkeys.WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
