package validation

import (
	"errors"
	"strings"
)

const (
	// LoginPasswordMinLength is the shortest password the login form accepts.
	LoginPasswordMinLength = 6
	// PasswordMaxLength is bcrypt's input limit; longer input is silently truncated.
	PasswordMaxLength = 72
)

// ValidatePassword validates the strength of a new password
// Enforces NIST recommendations: minimum 12 characters, blocks common patterns
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	if len(password) > PasswordMaxLength {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "admin", "letmein",
		"welcome", "monkey", "dragon", "master", "sunshine",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}

// ValidateLoginPassword checks the shape of a submitted login password.
// Strength rules only apply when a password is chosen, not when one is presented.
func ValidateLoginPassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) < LoginPasswordMinLength {
		return errors.New("password must be at least 6 characters")
	}

	if len(password) > PasswordMaxLength {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
