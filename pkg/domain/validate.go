package domain

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Registration form rules. The server re-validates; these exist so the
// form can reject bad input before a round trip.

const maxNameLen = 20

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName checks a first or last name field.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errors.New("name must not exceed 20 characters")
	}
	return nil
}

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy: at least 8
// characters including one special character.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 || !strings.ContainsAny(password, "!@#$%^&*") {
		return errors.New("password must be at least 8 characters and include a special character")
	}
	return nil
}
