package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/authgate/internal/config"
	"github.com/templui/authgate/internal/db"
	"github.com/templui/authgate/internal/repository"
	"github.com/templui/authgate/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	SessionService *service.SessionService
	EmailService   *service.EmailService
}

type Option func(*options)

type options struct {
	notifier service.Notifier
}

// WithNotifier replaces the email service as the verification notifier.
func WithNotifier(notifier service.Notifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.TokenEmailVerifyExpiry,
		cfg.IsDevelopment(),
	)

	var notifier service.Notifier = emailService
	if o.notifier != nil {
		notifier = o.notifier
	}

	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		notifier,
		cfg.TokenEmailVerifyExpiry,
	)
	userService := service.NewUserService(userRepository, tokenRepository, authService)
	sessionService := service.NewSessionService(cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		SessionService: sessionService,
		EmailService:   emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
