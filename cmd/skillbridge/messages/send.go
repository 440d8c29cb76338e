// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package messages

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
)

// maxStdinMessage bounds how much of stdin is read as a message body.
// Anything longer fails the content length check anyway.
const maxStdinMessage = 64 << 10

type sendParams struct {
	cli.JSONOutput
}

func sendCommand(app *cli.App) *cli.Command {
	var params sendParams

	return &cli.Command{
		Name:    "send",
		Summary: "Send a message",
		Description: `Send a message to a contact. The text is the remaining arguments
joined by spaces, or stdin when no text is given. Leading and trailing
whitespace is removed before sending.`,
		Usage: "skillbridge messages send <contact-id> [text...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Send a short message",
				Command:     "skillbridge messages send 5f0c... Are you available next week?",
			},
			{
				Description: "Send a file's contents",
				Command:     "skillbridge messages send 5f0c... < proposal.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("usage: skillbridge messages send <contact-id> [text...]")
			}
			contactID, text := args[0], strings.Join(args[1:], " ")
			if len(args) == 1 {
				data, err := io.ReadAll(io.LimitReader(app.Stdin, maxStdinMessage))
				if err != nil {
					return cli.Internal("reading message from stdin: %w", err)
				}
				text = string(data)
			}

			service, err := app.Conversations(ctx)
			if err != nil {
				return err
			}
			thread := service.Thread(contactID)
			thread.SetDraft(text)
			message, err := thread.Send(ctx)
			if err != nil {
				return conversationError(err, "Failed to send message")
			}

			if done, err := params.EmitJSON(app.Stdout, message); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Sent at %s\n", cli.FormatTime(app.Now(), message.CreatedAt))
			return nil
		},
	}
}
