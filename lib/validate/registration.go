// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"strings"
	"unicode/utf8"
)

// RegistrationInput is the sign-up form as typed by the user.
type RegistrationInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Registration applies the sign-up preconditions in the order the user
// sees them: all required fields present, password confirmation
// matches, password long enough. It returns the first failure.
//
// Registration deliberately does not apply [Password]'s digit and symbol
// rules; the server decides password policy for new accounts.
func Registration(input RegistrationInput) Result {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" {
		return invalid("Please fill in all required fields")
	}
	if input.Password != input.ConfirmPassword {
		return invalid("Passwords do not match")
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return invalid("Password must be at least %d characters long", MinPasswordLength)
	}
	return ok
}

// NormalizeEmail trims and lower-cases an email address the way the
// sign-up form submits it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
