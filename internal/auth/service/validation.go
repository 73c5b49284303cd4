package service

import (
	"regexp"
	"unicode"

	"github.com/kechcole/Blog-App/internal/common/constants"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateRegistration(username, email, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if !emailRegex.MatchString(email) {
		return commonerrors.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return commonerrors.NewValidationError("username", "must be between 3 and 32 characters")
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return commonerrors.NewValidationError("password", "must be between 8 and 72 characters")
	}

	if !isValidUsername(username) {
		return commonerrors.NewValidationError("username", "may only contain letters, digits, '_' and '-'")
	}

	if !isValidPassword(password) {
		return commonerrors.NewValidationError("password", "must contain at least one letter and one digit")
	}

	return nil
}

func isValidUsername(value string) bool {
	if !usernameRegex.MatchString(value) {
		return false
	}

	if !unicode.IsLetter(rune(value[0])) && !unicode.IsDigit(rune(value[0])) {
		return false
	}

	if !unicode.IsLetter(rune(value[len(value)-1])) && !unicode.IsDigit(rune(value[len(value)-1])) {
		return false
	}

	return true
}

func isValidPassword(value string) bool {
	hasLetter := false
	hasDigit := false

	for _, r := range value {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}

	return false
}
