package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/authgate/internal/config"
	"github.com/templui/authgate/internal/db/dbtest"
	"github.com/templui/authgate/internal/repository"
	"github.com/templui/authgate/internal/service"
)

func newTestAuthHandler(t *testing.T, cfg *config.Config) *AuthHandler {
	t.Helper()
	database := dbtest.New(t)
	authService := service.NewAuthService(
		repository.NewUserRepository(database),
		repository.NewTokenRepository(database),
		nil,
		24*time.Hour,
	)
	sessions := service.NewSessionService("test-secret", time.Hour, false)
	return NewAuthHandler(authService, sessions, cfg)
}

func TestNewAuthHandler_Providers(t *testing.T) {
	h := newTestAuthHandler(t, &config.Config{AppURL: "http://localhost:8090"})
	assert.Empty(t, h.providers)

	h = newTestAuthHandler(t, &config.Config{
		AppURL:             "http://localhost:8090",
		GitHubClientID:     "id",
		GitHubClientSecret: "secret",
	})
	require.Contains(t, h.providers, "github")
	assert.NotContains(t, h.providers, "google")
	assert.Equal(t, "http://localhost:8090/auth/github/callback", h.providers["github"].config.RedirectURL)
}

func TestOAuthStart_SetsStateAndRedirects(t *testing.T) {
	h := newTestAuthHandler(t, &config.Config{
		AppURL:             "http://localhost:8090",
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	req.SetPathValue("provider", "google")
	rec := httptest.NewRecorder()

	h.OAuthStart(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", location.Host)

	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c.Value
		}
	}
	assert.NotEmpty(t, state)
	assert.Equal(t, state, location.Query().Get("state"))
}

func TestOAuthCallback_StateMismatch(t *testing.T) {
	h := newTestAuthHandler(t, &config.Config{
		AppURL:             "http://localhost:8090",
		GitHubClientID:     "id",
		GitHubClientSecret: "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state=abc&code=xyz", nil)
	req.SetPathValue("provider", "github")
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "different"})
	rec := httptest.NewRecorder()

	h.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "OAuth authentication failed")
}

func TestVerifyEmail_StatusMapping(t *testing.T) {
	h := newTestAuthHandler(t, &config.Config{AppURL: "http://localhost:8090"})

	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=unknown", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Token not found\n", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
