// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package messages

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/conversation"
	"github.com/skillbridge/skillbridge/marketplace"
)

type threadParams struct {
	cli.JSONOutput
}

func threadCommand(app *cli.App) *cli.Command {
	var params threadParams

	return &cli.Command{
		Name:    "thread",
		Summary: "Show the messages with one contact",
		Description: `Show the messages exchanged with a contact, oldest first. Reading a
thread marks the contact's messages as read.`,
		Usage:  "skillbridge messages thread <contact-id> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: skillbridge messages thread <contact-id>")
			}
			_, user, err := app.SignedIn(ctx)
			if err != nil {
				return err
			}
			service, err := app.Conversations(ctx)
			if err != nil {
				return err
			}

			thread := service.Thread(args[0])
			if err := thread.Load(ctx); err != nil {
				return conversationError(err, "Failed to load messages")
			}

			messages := thread.Messages()
			if done, err := params.EmitJSON(app.Stdout, messages); done {
				return err
			}
			writeThread(app.Stdout, app.Now(), user.ID, contactName(ctx, service, args[0]), messages)
			return nil
		},
	}
}

// contactName looks the contact up in the conversation list. The id
// stands in for the name when the lookup fails or finds nothing.
func contactName(ctx context.Context, service *conversation.Service, contactID string) string {
	conversations, err := service.ListConversations(ctx)
	if err != nil {
		return contactID
	}
	for _, summary := range conversations {
		if summary.ContactID == contactID && summary.ContactName != "" {
			return summary.ContactName
		}
	}
	return contactID
}

func writeThread(w io.Writer, now time.Time, selfID, contact string, messages []marketplace.Message) {
	theme := cli.DefaultTheme
	fmt.Fprintln(w, theme.Heading.Render(contact))
	if len(messages) == 0 {
		fmt.Fprintln(w, theme.Faint.Render("No messages yet. Say hello!"))
		return
	}
	for _, message := range messages {
		sender := theme.Accent.Render(contact)
		if message.SenderID == selfID {
			sender = theme.Own.Render("You")
		}
		fmt.Fprintf(w, "%s %s: %s\n", theme.Faint.Render(cli.FormatTime(now, message.CreatedAt)), sender, message.Content)
	}
}
