package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	hasLetterRegex = regexp.MustCompile(`[A-Za-z]`)
	hasDigitRegex  = regexp.MustCompile(`[0-9]`)
)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidatePassword enforces the password policy: at least 8 characters with
// at least one letter and one digit
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long and include both letters and numbers")
	}
	if !hasLetterRegex.MatchString(password) || !hasDigitRegex.MatchString(password) {
		return errors.New("password must be at least 8 characters long and include both letters and numbers")
	}
	return nil
}

func ValidateRequired(field, fieldName string) error {
	if strings.TrimSpace(field) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address. Email uniqueness is
// case-insensitive; all lookups and writes go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
