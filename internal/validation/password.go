package validation

import (
	"errors"
	"regexp"
)

const MinPasswordLength = 8

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// Password enforces the rules for customer passwords.
func Password(password string) error {
	if len(password) < MinPasswordLength || !HasSpecialChar(password) {
		return errors.New("password must be at least 8 characters and contain special characters")
	}
	return nil
}
