// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the marketplace API. Callers can
// use errors.As to extract it:
//
//	var apiErr *APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
	// Message is the server's "error" text. Empty when the server sent
	// no JSON body or no error field.
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("marketplace: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("marketplace: %d: %s", e.StatusCode, e.Message)
}

// ErrMissingUser is returned when a 2xx response that should carry a
// user record does not.
var ErrMissingUser = errors.New("marketplace: response has no user record")

// ErrMissingMessage is returned when a successful send response does
// not carry the stored message.
var ErrMissingMessage = errors.New("marketplace: response has no message")

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// UserMessage returns the text to show the user for a failed API call:
// the server's error message when the failure is an *APIError that
// carries one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
