package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "secret")
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenEmailVerifyExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestParse_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_EMAIL_VERIFY_EXPIRY", "2h")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.TokenEmailVerifyExpiry)
	assert.True(t, cfg.GitHubEnabled())
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_ProductionRequiresResend(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("RESEND_API_KEY", "")

	_, err := Parse()
	assert.ErrorContains(t, err, "RESEND_API_KEY")

	t.Setenv("RESEND_API_KEY", "re_123")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{AppName: "Acme", JWTSecret: "s", ResendAPIKey: "k", GoogleClientSecret: "g"}
	safe := cfg.Sanitized()

	assert.Equal(t, "Acme", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.GoogleClientSecret)
}
