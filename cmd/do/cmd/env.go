package cmd

import (
	"github.com/templui/authgate/internal/app"
	"github.com/templui/authgate/internal/config"
	"github.com/templui/authgate/internal/logger"
)

// loadConfig reads configuration and sets up logging for a CLI run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Environment: cfg.AppEnv,
	})
	return cfg, nil
}

// withApp builds the application (migrating the database) and closes it after fn.
func withApp(fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}
