package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/authgate/internal/markdown"
)

func TestRenderVerifyEmail(t *testing.T) {
	msg, err := renderEmail(markdown.NewParser(), "verify_email.md", verifyEmailData{
		AppName:   "Acme",
		URL:       "https://acme.test/api/auth/verify-email?token=abc",
		ExpiresIn: "24 hours",
	})
	require.NoError(t, err)

	assert.Equal(t, "Verify your email for Acme", msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://acme.test/api/auth/verify-email?token=abc"`)
	assert.Contains(t, msg.Text, "This link expires in 24 hours.")
	assert.NotContains(t, msg.Text, "subject:")
}

func TestVerificationURL_EscapesToken(t *testing.T) {
	s := NewEmailService("", "noreply@acme.test", "https://acme.test", "Acme", 24*time.Hour, true)
	assert.Equal(t, "https://acme.test/api/auth/verify-email?token=a%2Bb", s.VerificationURL("a+b"))
}

func TestSendEmailVerification_DevModeLogsOnly(t *testing.T) {
	s := NewEmailService("", "noreply@acme.test", "https://acme.test", "Acme", 24*time.Hour, true)
	assert.NoError(t, s.SendEmailVerification(context.Background(), "u@example.com", "tok"))
}

func TestSendEmailVerification_NotConfigured(t *testing.T) {
	s := NewEmailService("", "noreply@acme.test", "https://acme.test", "Acme", 24*time.Hour, false)
	err := s.SendEmailVerification(context.Background(), "u@example.com", "tok")
	assert.ErrorIs(t, err, ErrEmailNotConfigured)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "24 hours", humanDuration(24*time.Hour))
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "10 minutes", humanDuration(10*time.Minute))
	assert.Equal(t, "1m30s", humanDuration(90*time.Second))
}
