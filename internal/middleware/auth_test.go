package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/db/dbtest"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/repository"
	"github.com/templui/authgate/internal/service"
)

type authMiddlewareFixture struct {
	sessions *service.SessionService
	users    *service.UserService
	handler  http.Handler
	seen     *model.Session
}

func newAuthMiddlewareFixture(t *testing.T) *authMiddlewareFixture {
	t.Helper()
	database := dbtest.New(t)
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	authService := service.NewAuthService(userRepository, tokenRepository, nil, 24*time.Hour)

	f := &authMiddlewareFixture{
		sessions: service.NewSessionService("test-secret", time.Hour, false),
		users:    service.NewUserService(userRepository, tokenRepository, authService),
	}
	f.handler = AuthMiddleware(f.sessions, f.users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.seen = ctxkeys.Session(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return f
}

func (f *authMiddlewareFixture) serve(cookie *http.Cookie) *httptest.ResponseRecorder {
	f.seen = nil
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_NoCookie(t *testing.T) {
	f := newAuthMiddlewareFixture(t)

	rec := f.serve(nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.seen)
}

func TestAuthMiddleware_ValidSession(t *testing.T) {
	f := newAuthMiddlewareFixture(t)
	ctx := t.Context()
	user, err := f.users.Create(ctx, service.CreateUserParams{Email: "ada@example.com", Password: "secret-pass", Verified: true})
	require.NoError(t, err)

	token, _, err := f.sessions.Issue(user)
	require.NoError(t, err)

	f.serve(&http.Cookie{Name: service.SessionCookieName, Value: token})

	require.NotNil(t, f.seen)
	assert.Equal(t, user.ID, f.seen.UserID)
	assert.Equal(t, model.RoleUser, f.seen.Role)
}

func TestAuthMiddleware_RoleComesFromStore(t *testing.T) {
	f := newAuthMiddlewareFixture(t)
	ctx := t.Context()
	user, err := f.users.Create(ctx, service.CreateUserParams{Email: "ada@example.com", Password: "secret-pass", Verified: true})
	require.NoError(t, err)

	token, _, err := f.sessions.Issue(user)
	require.NoError(t, err)

	_, err = f.users.SetRole(ctx, user.Email, model.RoleAdmin)
	require.NoError(t, err)

	f.serve(&http.Cookie{Name: service.SessionCookieName, Value: token})

	require.NotNil(t, f.seen)
	assert.Equal(t, model.RoleAdmin, f.seen.Role)
}

func TestAuthMiddleware_InvalidCookieIsCleared(t *testing.T) {
	f := newAuthMiddlewareFixture(t)

	rec := f.serve(&http.Cookie{Name: service.SessionCookieName, Value: "not-a-jwt"})

	assert.Nil(t, f.seen)
	cleared := findCookie(rec.Result().Cookies(), service.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestAuthMiddleware_DeletedUserIsAnonymous(t *testing.T) {
	f := newAuthMiddlewareFixture(t)

	token, _, err := f.sessions.Issue(&model.User{ID: "missing", Email: "gone@example.com", Role: model.RoleUser})
	require.NoError(t, err)

	f.serve(&http.Cookie{Name: service.SessionCookieName, Value: token})

	assert.Nil(t, f.seen)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
