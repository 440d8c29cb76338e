// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the skillbridge command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/account"
	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	directorycmd "github.com/skillbridge/skillbridge/cmd/skillbridge/directory"
	messagescmd "github.com/skillbridge/skillbridge/cmd/skillbridge/messages"
	profilecmd "github.com/skillbridge/skillbridge/cmd/skillbridge/profile"
	"github.com/skillbridge/skillbridge/lib/version"
)

// Root returns the complete command tree, with every command bound to
// app.
func Root(app *cli.App) *cli.Command {
	return &cli.Command{
		Name: "skillbridge",
		Description: `SkillBridge: find professionals and message them.

Sign in with "skillbridge login" (or create an account with
"skillbridge register"). The session is kept on disk until you run
"skillbridge logout".

The marketplace address comes from api.base_url in the config file
named by SKILLBRIDGE_CONFIG, or from SKILLBRIDGE_API_BASE_URL.`,
		Subcommands: []*cli.Command{
			account.LoginCommand(app),
			account.RegisterCommand(app),
			account.LogoutCommand(app),
			account.WhoAmICommand(app),
			directorycmd.Command(app),
			profilecmd.Command(app),
			messagescmd.Command(app),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					if len(args) > 0 {
						return cli.Validation("unexpected argument: %s", args[0])
					}
					fmt.Fprintf(app.Stdout, "skillbridge %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
