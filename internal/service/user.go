package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnknownRole  = errors.New("unknown role")
)

// Roles lists the roles a user may hold.
var Roles = []string{model.RoleUser, model.RoleAdmin}

type UserService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	authService     *AuthService
}

func NewUserService(userRepository repository.UserRepository, tokenRepository repository.TokenRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		authService:     authService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

type CreateUserParams struct {
	Email    string
	Password string
	Role     string
	Verified bool
}

// Create provisions a password account directly, bypassing the signup form.
// Operators use it to seed admins.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*model.User, error) {
	role := params.Role
	if role == "" {
		role = model.RoleUser
	}
	if !slices.Contains(Roles, role) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	email := normalizeEmail(params.Email)
	err := validateCredentials(email, params.Password)
	if err != nil {
		return nil, err
	}

	hash, err := s.authService.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		Role:         role,
		CreatedAt:    now,
	}
	if params.Verified {
		user.EmailVerifiedAt = &now
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "email", email, "role", role)
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, email, role string) (*model.User, error) {
	role = strings.TrimSpace(role)
	if !slices.Contains(Roles, role) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	user, err := s.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Role = role
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("user role changed", "user_id", user.ID, "role", role)
	return user, nil
}

// PendingVerification returns the user's live verification token, if any.
// Expired tokens still on file are not reported.
func (s *UserService) PendingVerification(ctx context.Context, email string) (*model.VerificationToken, error) {
	token, err := s.tokenRepository.ByIdentifier(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !token.IsLive(s.authService.now()) {
		return nil, nil
	}
	return token, nil
}

// PruneTokens deletes consumed and expired verification tokens older than olderThan.
func (s *UserService) PruneTokens(ctx context.Context, olderThan time.Duration) (int64, error) {
	removed, err := s.tokenRepository.CleanupExpired(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tokens: %w", err)
	}

	slog.Info("verification tokens pruned", "removed", removed, "older_than", olderThan)
	return removed, nil
}
