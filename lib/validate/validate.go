// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the verdict of a single check. Message is empty when Valid
// is true.
type Result struct {
	Valid   bool
	Message string
}

// Err converts an invalid Result into an error carrying its message.
// Returns nil for a valid Result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Message: r.Message}
}

// Error is a precondition failure detected before any network call.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

var ok = Result{Valid: true}

func invalid(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// MaxSummaryLength is the enforced bound on the profile summary, in
// characters.
const MaxSummaryLength = 150

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordSymbols is the set of characters that satisfy the "special
// character" password rule.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// lengthRange is an inclusive digit-count range.
type lengthRange struct {
	min, max int
}

// mobileLengths maps country calling codes to the digit count of a
// national mobile number.
var mobileLengths = map[string]lengthRange{
	"+1":   {10, 10}, // US/Canada
	"+44":  {10, 11}, // UK
	"+91":  {10, 10}, // India
	"+65":  {8, 8},   // Singapore
	"+353": {9, 10},  // Ireland
}

// defaultMobileLength applies to calling codes missing from mobileLengths.
var defaultMobileLength = lengthRange{7, 15}

// mobileSeparators are stripped before a mobile number is measured.
var mobileSeparators = strings.NewReplacer("-", "", "(", "", ")", "")

// Email checks that email is present and shaped like local@domain.tld.
func Email(email string) Result {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Please enter a valid email address")
	}
	return ok
}

// Password checks that password is present, at least
// [MinPasswordLength] characters long, and contains a digit and a
// character from [PasswordSymbols].
func Password(password string) Result {
	if strings.TrimSpace(password) == "" {
		return invalid("Password is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("Password must be at least %d characters long", MinPasswordLength)
	}
	if !strings.ContainsAny(password, "0123456789") {
		return invalid("Password must contain at least one number")
	}
	if !strings.ContainsAny(password, PasswordSymbols) {
		return invalid("Password must contain at least one special character")
	}
	return ok
}

// Mobile checks an optional mobile number against the digit count
// expected for countryCode. An empty number is valid. Whitespace,
// hyphens, and parentheses are ignored.
func Mobile(mobile, countryCode string) Result {
	if strings.TrimSpace(mobile) == "" {
		return ok
	}

	cleaned := mobileSeparators.Replace(strings.Join(strings.Fields(mobile), ""))

	length, found := mobileLengths[countryCode]
	if !found {
		length = defaultMobileLength
	}

	count := utf8.RuneCountInString(cleaned)
	if count < length.min || count > length.max {
		if length.min == length.max {
			return invalid("Mobile number must be %d digits for this country", length.min)
		}
		return invalid("Mobile number must be %d-%d digits for this country", length.min, length.max)
	}

	for _, character := range cleaned {
		if character < '0' || character > '9' {
			return invalid("Mobile number can only contain digits")
		}
	}
	return ok
}

// Summary checks an optional profile summary against
// [MaxSummaryLength].
func Summary(summary string) Result {
	if strings.TrimSpace(summary) == "" {
		return ok
	}
	count := utf8.RuneCountInString(summary)
	if count > MaxSummaryLength {
		return invalid("Summary must be %d characters or less (%d/%d)", MaxSummaryLength, count, MaxSummaryLength)
	}
	return ok
}

// Required checks that value is non-empty after trimming. fieldName is
// used in the message.
func Required(value, fieldName string) Result {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", fieldName)
	}
	return ok
}
