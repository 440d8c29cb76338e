// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
)

type whoamiParams struct {
	cli.JSONOutput
	Refresh bool `flag:"refresh" desc:"fetch the current record from the server before printing"`
}

// WhoAmICommand returns the "whoami" command.
func WhoAmICommand(app *cli.App) *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in user",
		Description: `Print the signed-in user from the saved session.

With --refresh the record is fetched from the server first and the
saved session is updated with it.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			manager, user, err := app.SignedIn(ctx)
			if err != nil {
				return err
			}
			if params.Refresh {
				if user, err = manager.Refresh(ctx); err != nil {
					return cli.FromAPIError(err, "Failed to refresh profile")
				}
			}

			if done, err := params.EmitJSON(app.Stdout, cli.WithoutToken(user)); done {
				return err
			}
			theme := cli.DefaultTheme
			fmt.Fprintln(app.Stdout, theme.Heading.Render(user.DisplayName()))
			fmt.Fprintf(app.Stdout, "%s %s\n", theme.Label.Render("Email:"), user.EmailID)
			fmt.Fprintf(app.Stdout, "%s %s\n", theme.Label.Render("ID:   "), user.ID)
			if user.RoleType != "" {
				fmt.Fprintf(app.Stdout, "%s %s\n", theme.Label.Render("Role: "), user.RoleType)
			}
			return nil
		},
	}
}
