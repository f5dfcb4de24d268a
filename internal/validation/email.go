package validation

import (
	"errors"
	"net/mail"
)

// MaxEmailLength is the RFC 5321 limit on a forward path.
const MaxEmailLength = 254

// ValidateEmail accepts a bare RFC 5322 address only. Display-name and
// angle-bracket forms parse as mailboxes but are rejected, since the string
// itself is used as the account identity.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	if len(email) > MaxEmailLength {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
