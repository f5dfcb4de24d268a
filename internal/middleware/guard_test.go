package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/model"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func withSession(r *http.Request, role string) *http.Request {
	session := &model.Session{UserID: "u-1", Email: "ada@example.com", Role: role}
	return r.WithContext(ctxkeys.WithSession(r.Context(), session))
}

func TestRouteGuard(t *testing.T) {
	guard := RouteGuard(http.HandlerFunc(okHandler))

	tests := []struct {
		name     string
		path     string
		signedIn bool
		wantCode int
		wantLoc  string
	}{
		{name: "home is public", path: "/", wantCode: http.StatusOK},
		{name: "login is public", path: "/login", wantCode: http.StatusOK},
		{name: "register is public", path: "/register", wantCode: http.StatusOK},
		{name: "verify endpoint is public", path: "/api/auth/verify-email", wantCode: http.StatusOK},
		{name: "dashboard redirects anonymous", path: "/dashboard", wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "admin redirects anonymous", path: "/admin", wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "public match is exact", path: "/login/extra", wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "unknown path redirects anonymous", path: "/nowhere", wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "assets skipped", path: "/assets/css/app.css", wantCode: http.StatusOK},
		{name: "dotted file skipped", path: "/favicon.ico", wantCode: http.StatusOK},
		{name: "oauth handshake skipped", path: "/auth/google/callback", wantCode: http.StatusOK},
		{name: "dashboard with session", path: "/dashboard", signedIn: true, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.signedIn {
				req = withSession(req, model.RoleUser)
			}
			rec := httptest.NewRecorder()

			guard.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestRouteGuard_HTMXRedirect(t *testing.T) {
	guard := RouteGuard(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestRequireRole(t *testing.T) {
	denied := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("You are not admin"))
	}
	h := RequireRole(model.RoleAdmin, denied, okHandler)

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), model.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("user is denied in place", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), model.RoleUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), "You are not admin")
	})

	t.Run("no session is denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireGuest(t *testing.T) {
	h := RequireGuest(okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, withSession(httptest.NewRequest(http.MethodGet, "/login", nil), model.RoleUser))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, DashboardPath, rec.Header().Get("Location"))
}

func TestGuarded(t *testing.T) {
	assert.True(t, Guarded("/dashboard"))
	assert.True(t, Guarded("/"))
	assert.False(t, Guarded("/robots.txt"))
	assert.False(t, Guarded("/assets/js/app"))
	assert.False(t, Guarded("/auth/logout"))
}
