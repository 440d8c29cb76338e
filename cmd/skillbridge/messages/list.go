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
	"github.com/skillbridge/skillbridge/marketplace"
)

type listParams struct {
	cli.JSONOutput
}

func listCommand(app *cli.App) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List your conversations",
		Description: `List conversations, most recent first, with the last message and
the number of unread messages from each contact.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			service, err := app.Conversations(ctx)
			if err != nil {
				return err
			}
			conversations, err := service.ListConversations(ctx)
			if err != nil {
				return conversationError(err, "Failed to load conversations")
			}

			if done, err := params.EmitJSON(app.Stdout, conversations); done {
				return err
			}
			writeConversations(app.Stdout, app.Now(), conversations)
			return nil
		},
	}
}

func writeConversations(w io.Writer, now time.Time, conversations []marketplace.ConversationSummary) {
	if len(conversations) == 0 {
		fmt.Fprintln(w, "No conversations yet")
		return
	}

	theme := cli.DefaultTheme
	for _, summary := range conversations {
		name := summary.ContactName
		if name == "" {
			name = summary.ContactID
		}
		line := theme.Heading.Render(name)
		if summary.UnreadCount > 0 {
			line += " " + theme.Unread.Render(fmt.Sprintf(" %d new ", summary.UnreadCount))
		}
		if !summary.LastMessageTime.IsZero() {
			line += "  " + theme.Faint.Render(cli.FormatTime(now, summary.LastMessageTime))
		}
		fmt.Fprintln(w, line)

		preview := "No messages yet"
		if summary.LastMessage != "" {
			preview = cli.Preview(summary.LastMessage, cli.PreviewWidth)
		}
		fmt.Fprintf(w, "  %s\n", preview)
		fmt.Fprintf(w, "  %s\n", theme.Faint.Render(summary.ContactID))
	}
}
