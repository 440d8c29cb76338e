// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the diagnostic logger for a CLI run. When
// stderr is a terminal it uses slog.TextHandler for human-readable
// output; when piped or redirected it uses slog.JSONHandler so scripts
// can parse it. Diagnostics go to stderr and never mix with command
// output on stdout.
func NewCommandLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
