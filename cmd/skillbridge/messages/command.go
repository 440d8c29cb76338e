// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package messages implements the "messages" command group: the
// conversation list, a single thread, and sending.
package messages

import (
	"errors"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/conversation"
)

// Command returns the "messages" command group.
func Command(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "messages",
		Summary: "Read and send direct messages",
		Description: `Direct messages between marketplace members.

Contacts are identified by user id, as printed by "skillbridge
directory" and "skillbridge messages list".`,
		Subcommands: []*cli.Command{
			listCommand(app),
			threadCommand(app),
			sendCommand(app),
		},
	}
}

// conversationError converts a conversation error into a ToolError.
// Precondition failures become validation errors; everything else is
// surfaced with fallback.
func conversationError(err error, fallback string) error {
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		return cli.Validation("Message cannot be empty")
	case errors.Is(err, conversation.ErrMessageTooLong):
		return cli.Validation("Message is too long (at most %d characters)", conversation.MaxContentLength)
	case errors.Is(err, conversation.ErrMissingRecipient), errors.Is(err, conversation.ErrMissingContact):
		return cli.Validation("a contact id is required")
	default:
		return cli.FromAPIError(err, fallback)
	}
}
