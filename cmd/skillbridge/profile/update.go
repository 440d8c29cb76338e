// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/profile"
)

type updateParams struct {
	cli.JSONOutput
	File string `flag:"file,f" desc:"form file written by \"profile template\""`
}

func updateCommand(app *cli.App) *cli.Command {
	var params updateParams

	return &cli.Command{
		Name:    "update",
		Summary: "Save your profile from a form file",
		Description: `Validate a form file and save it as the signed-in user's profile.

Every field in the form is sent, so a field left empty clears the
stored value. Validation problems are listed per field and nothing is
sent until all of them are fixed.`,
		Usage:  "skillbridge profile update <file> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			path := params.File
			switch {
			case len(args) > 1:
				return cli.Validation("unexpected argument: %s", args[1])
			case len(args) == 1 && path != "":
				return cli.Validation("form file given both as --file and as an argument")
			case len(args) == 1:
				path = args[0]
			case path == "":
				return cli.Validation("a form file is required (see \"skillbridge profile template\")")
			}

			form, err := profile.ReadFile(path)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if err := form.Validate(); err != nil {
				return cli.Validation("%s", describeFieldErrors(err))
			}

			manager, _, err := app.SignedIn(ctx)
			if err != nil {
				return err
			}
			user, err := manager.UpdateProfile(ctx, form.Update())
			if err != nil {
				return cli.FromAPIError(err, "Failed to update profile")
			}

			if done, err := params.EmitJSON(app.Stdout, cli.WithoutToken(user)); done {
				return err
			}
			fmt.Fprintln(app.Stdout, "Profile updated")
			return nil
		},
	}
}

func describeFieldErrors(err error) string {
	fieldErrors := profile.FieldErrors(err)
	if len(fieldErrors) == 0 {
		return err.Error()
	}
	var builder strings.Builder
	builder.WriteString("the form has problems:")
	for _, fieldErr := range fieldErrors {
		fmt.Fprintf(&builder, "\n  %s: %s", fieldErr.Field, fieldErr.Message)
	}
	return builder.String()
}
