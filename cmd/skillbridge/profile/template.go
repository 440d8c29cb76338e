// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/profile"
)

type templateParams struct {
	Output string `flag:"output,o" desc:"write the form to this file instead of stdout"`
}

func templateCommand(app *cli.App) *cli.Command {
	var params templateParams

	return &cli.Command{
		Name:    "template",
		Summary: "Write your profile as an editable form",
		Description: `Write the signed-in user's profile as a JSONC form, with a comment
above each field listing the accepted values. Unset fields are filled
with their defaults. Pass the edited file to "profile update".`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			_, user, err := app.SignedIn(ctx)
			if err != nil {
				return err
			}

			form := profile.FromUser(user)
			header := fmt.Sprintf("Profile form for %s.\nEdit the values, then run: skillbridge profile update <file>", user.DisplayName())

			if params.Output == "" {
				return form.WriteTemplate(app.Stdout, header)
			}
			file, err := os.OpenFile(params.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
			if err != nil {
				return cli.Internal("creating %s: %w", params.Output, err)
			}
			if err := form.WriteTemplate(file, header); err != nil {
				file.Close()
				return cli.Internal("writing %s: %w", params.Output, err)
			}
			if err := file.Close(); err != nil {
				return cli.Internal("writing %s: %w", params.Output, err)
			}
			fmt.Fprintf(app.Stdout, "Wrote %s\n", params.Output)
			return nil
		},
	}
}
