package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/repository"
	"github.com/templui/authgate/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNoUserFound          = errors.New("no user found")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrVerificationRequired = errors.New("email verification required")
	ErrTokenNotFound        = errors.New("token not found")
	ErrTokenExpired         = errors.New("token expired")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrEmailAlreadyExists   = errors.New("email already exists")
)

// ValidationError reports a malformed form field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Notifier delivers verification links to users.
type Notifier interface {
	SendEmailVerification(ctx context.Context, email, token string) error
}

type AuthService struct {
	userRepository         repository.UserRepository
	tokenRepository        repository.TokenRepository
	notifier               Notifier
	tokenEmailVerifyExpiry time.Duration
	now                    func() time.Time
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	notifier Notifier,
	tokenEmailVerifyExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:         userRepository,
		tokenRepository:        tokenRepository,
		notifier:               notifier,
		tokenEmailVerifyExpiry: tokenEmailVerifyExpiry,
		now:                    time.Now,
	}
}

// SetClock replaces the time source used for token expiry.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

// Login checks credentials and gates on email verification.
// An unverified user gets a fresh verification token and email, and
// ErrVerificationRequired is returned.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNoUserFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth-only accounts cannot sign in with a password
	if !user.HasPassword() {
		return nil, ErrNoUserFound
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrIncorrectPassword
	}

	if !user.IsVerified() {
		err = s.issueEmailVerification(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		return nil, ErrVerificationRequired
	}

	return user, nil
}

// issueEmailVerification replaces any token for email with a new one and
// sends the link. Delivery is best effort: the token stays valid and another
// login attempt sends a new email.
func (s *AuthService) issueEmailVerification(ctx context.Context, email string) error {
	value, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	token := &model.VerificationToken{
		Identifier: email,
		Token:      value,
		ExpiresAt:  now.Add(s.tokenEmailVerifyExpiry),
		CreatedAt:  now,
	}
	err = s.tokenRepository.Issue(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.notifier.SendEmailVerification(ctx, email, value)
	if err != nil {
		slog.Warn("failed to send verification email", "error", err, "email", email)
		return nil
	}

	slog.Info("verification email sent", "email", email)
	return nil
}

// VerifyEmail consumes a verification token and marks its user verified.
// Expired tokens are rejected and left in place.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	t, err := s.tokenRepository.ByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	now := s.now()
	if t.IsExpired(now) {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepository.ByEmail(ctx, t.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified() {
		return nil, ErrAlreadyVerified
	}

	err = s.userRepository.MarkEmailVerified(ctx, user.Email, now)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyVerified) {
			return nil, ErrAlreadyVerified
		}
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	user.EmailVerifiedAt = &now

	err = s.tokenRepository.Consume(ctx, t.Identifier, now)
	if err != nil {
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	slog.Info("email verified", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Register creates an unverified password account. Verification is requested
// on the first login attempt.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Message: err.Error()}
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		CreatedAt:    s.now(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", email)
	return user, nil
}

// AuthenticateOAuth signs in a user asserted by an OAuth provider.
// Unknown emails get a new OAuth-only account; the provider has verified the email.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := s.now()
		user = &model.User{
			ID:              uuid.New().String(),
			Email:           email,
			EmailVerifiedAt: &now,
			Role:            model.RoleUser,
			OAuthLinked:     true,
			CreatedAt:       now,
		}

		err = s.userRepository.Create(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new OAuth user created", "email", email, "user_id", user.ID, "provider", provider)
		return user, nil
	}

	if !user.IsVerified() {
		// A password set before the address was verified is dropped, along with
		// any pending verification link.
		now := s.now()
		user.OAuthLinked = true
		user.EmailVerifiedAt = &now
		user.PasswordHash = nil

		err = s.userRepository.Update(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to link oauth account: %w", err)
		}

		err = s.tokenRepository.Consume(ctx, email, now)
		if err != nil {
			return nil, fmt.Errorf("failed to retire verification token: %w", err)
		}

		slog.Info("unverified account claimed via OAuth", "user_id", user.ID, "provider", provider)
	} else if !user.OAuthLinked {
		user.OAuthLinked = true
		err = s.userRepository.Update(ctx, user)
		if err != nil {
			// Don't fail login
			slog.Warn("failed to link oauth account", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "email", user.Email, "provider", provider)
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateToken returns 256 random bits, base64url encoded without padding.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func validateCredentials(email, password string) error {
	err := validation.ValidateEmail(email)
	if err != nil {
		return &ValidationError{Field: "email", Message: err.Error()}
	}

	err = validation.ValidateLoginPassword(password)
	if err != nil {
		return &ValidationError{Field: "password", Message: err.Error()}
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
