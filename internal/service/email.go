package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/templui/authgate/internal/markdown"
)

// VerifyEmailPath is the route that consumes verification links.
const VerifyEmailPath = "/api/auth/verify-email"

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client       *resend.Client
	parser       *markdown.Parser
	fromEmail    string
	appURL       string
	appName      string
	verifyExpiry time.Duration
	isDev        bool
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, verifyExpiry time.Duration, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:       client,
		parser:       markdown.NewParser(),
		fromEmail:    fromEmail,
		appURL:       appURL,
		appName:      appName,
		verifyExpiry: verifyExpiry,
		isDev:        isDev,
	}
}

// VerificationURL builds the link embedded in verification emails.
func (s *EmailService) VerificationURL(token string) string {
	return s.appURL + VerifyEmailPath + "?token=" + url.QueryEscape(token)
}

func (s *EmailService) SendEmailVerification(ctx context.Context, email, token string) error {
	verifyURL := s.VerificationURL(token)
	msg, err := renderEmail(s.parser, "verify_email.md", verifyEmailData{
		AppName:   s.appName,
		URL:       verifyURL,
		ExpiresIn: humanDuration(s.verifyExpiry),
	})
	if err != nil {
		return err
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "verify_email", "to", email, "subject", msg.Subject, "url", verifyURL)
		return nil
	}

	return s.send(ctx, "verify_email", email, msg)
}

func (s *EmailService) send(ctx context.Context, kind, to string, msg *renderedEmail) error {
	if s.client == nil {
		return ErrEmailNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
