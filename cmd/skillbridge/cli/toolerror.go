// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

// ErrorCategory classifies command errors so scripts can decide whether
// to fix input, sign in, or retry without parsing message text. The
// category is printed with --json error output and selects the exit
// code.
type ErrorCategory string

const (
	// CategoryValidation: the caller provided invalid input.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced user or thread does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: not signed in, or the server refused the
	// credential.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: the operation conflicts with existing state,
	// such as registering an email that is already taken.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure or a 5xx response. Retrying
	// may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: an unexpected failure such as a corrupt local
	// store.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps the
// underlying error so errors.Is and errors.As still see the chain.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryForbidden:
		return 3
	case CategoryNotFound:
		return 4
	case CategoryTransient:
		return 75
	default:
		return 1
	}
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// NotSignedInMessage is shown by commands that need a session.
const NotSignedInMessage = `not signed in; run "skillbridge login" first`

// FromAPIError categorizes a failed operation and chooses the message to
// show: the server's error text when it sent one, otherwise fallback.
// A missing session becomes a forbidden error pointing at login.
func FromAPIError(err error, fallback string) *ToolError {
	if errors.Is(err, session.ErrNotAuthenticated) {
		return &ToolError{Category: CategoryForbidden, Err: errors.New(NotSignedInMessage)}
	}

	// The client has already logged transport details; the user sees
	// only the surfaced message.
	surfaced := &surfacedError{message: marketplace.UserMessage(err, fallback), err: err}
	if errors.Is(err, context.Canceled) {
		return &ToolError{Category: CategoryInternal, Err: surfaced}
	}

	var apiErr *marketplace.APIError
	if !errors.As(err, &apiErr) {
		return &ToolError{Category: CategoryTransient, Err: surfaced}
	}

	switch status := apiErr.StatusCode; {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ToolError{Category: CategoryValidation, Err: surfaced}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &ToolError{Category: CategoryForbidden, Err: surfaced}
	case status == http.StatusNotFound:
		return &ToolError{Category: CategoryNotFound, Err: surfaced}
	case status == http.StatusConflict:
		return &ToolError{Category: CategoryConflict, Err: surfaced}
	case status >= 500 || status == http.StatusTooManyRequests:
		return &ToolError{Category: CategoryTransient, Err: surfaced}
	default:
		return &ToolError{Category: CategoryInternal, Err: surfaced}
	}
}

// surfacedError prints only the user-facing message while keeping the
// cause reachable through Unwrap.
type surfacedError struct {
	message string
	err     error
}

func (e *surfacedError) Error() string { return e.message }

func (e *surfacedError) Unwrap() error { return e.err }
