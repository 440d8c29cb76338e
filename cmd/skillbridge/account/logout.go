// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
)

// LogoutCommand returns the "logout" command.
func LogoutCommand(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Sign out and forget the saved session",
		Description: `Sign out and delete the saved session.

Signing out when nobody is signed in succeeds and does nothing.`,
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			manager, err := app.Session(ctx)
			if err != nil {
				return err
			}
			wasSignedIn := manager.Current() != nil
			manager.Logout(ctx)
			if wasSignedIn {
				fmt.Fprintln(app.Stdout, "Signed out")
			} else {
				fmt.Fprintln(app.Stdout, "Not signed in")
			}
			return nil
		},
	}
}
