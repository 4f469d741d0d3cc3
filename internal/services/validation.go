package services

import (
	"regexp"

	"github.com/snowballopensource/snowball-api/internal/apperror"
)

const (
	minUsernameLength = 3
	minPasswordLength = 5
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return apperror.Validation("username", "Your username must have at least 3 characters. Try again.")
	}
	if !usernamePattern.MatchString(username) {
		return apperror.Validation("username", "Your username can only contain letters, numbers, and underscores. Try again.")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperror.Validation("email", "That doesn't look like an email address. Try again.")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Validation("password", "Your password must have at least 5 characters. Try again.")
	}
	return nil
}
