// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/secret"
	"github.com/skillbridge/skillbridge/lib/validate"
	"github.com/skillbridge/skillbridge/marketplace"
)

type loginParams struct {
	cli.JSONOutput
	Email        string `flag:"email" desc:"account email (default: prompt)"`
	PasswordFile string `flag:"password-file" desc:"file containing the password, or - for the first line of stdin (default: prompt)"`
}

// LoginCommand returns the "login" command.
func LoginCommand(app *cli.App) *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in to the marketplace",
		Description: `Sign in with your email and password and save the session locally.

Later commands use the saved session automatically until "skillbridge
logout". The password is prompted for with echo disabled unless
--password-file is given.`,
		Usage: "skillbridge login [email] [flags]",
		Examples: []cli.Example{
			{
				Description: "Sign in interactively",
				Command:     "skillbridge login dana@example.com",
			},
			{
				Description: "Sign in from a script",
				Command:     "skillbridge login --email dana@example.com --password-file ~/.skillbridge-password",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			email, err := emailArgument(params.Email, args)
			if err != nil {
				return err
			}
			prompter := app.Prompter()
			if email == "" {
				if email, err = prompter.Line("Email"); err != nil {
					return cli.Internal("%w", err)
				}
			}

			if strings.TrimSpace(email) == "" {
				return cli.Validation("Please fill in all fields")
			}
			if result := validate.Email(email); !result.Valid {
				return cli.Validation("%s", result.Message)
			}

			password, err := readPassword(prompter, params.PasswordFile, "Password")
			if err != nil {
				return err
			}
			defer password.Close()

			manager, err := app.Session(ctx)
			if err != nil {
				return err
			}
			user, err := manager.Login(ctx, validate.NormalizeEmail(email), password)
			if err != nil {
				return cli.FromAPIError(err, "Login failed")
			}

			if done, err := params.EmitJSON(app.Stdout, cli.WithoutToken(user)); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Signed in as %s\n", describeUser(user))
			return nil
		},
	}
}

// emailArgument takes the email from the flag or the single positional
// argument. Empty means prompt.
func emailArgument(flagValue string, args []string) (string, error) {
	if len(args) > 1 {
		return "", cli.Validation("unexpected argument: %s", args[1])
	}
	if len(args) == 1 {
		if flagValue != "" && flagValue != args[0] {
			return "", cli.Validation("email given both as --email and as an argument")
		}
		return args[0], nil
	}
	return flagValue, nil
}

// readPassword reads a password from passwordFile, or prompts for it
// when passwordFile is empty.
func readPassword(prompter *cli.Prompter, passwordFile, label string) (*secret.Buffer, error) {
	if passwordFile == "" {
		return prompter.Secret(label)
	}
	buffer, err := secret.ReadFromPath(passwordFile)
	if err != nil {
		return nil, cli.Validation("reading password from %s: %w", passwordFile, err)
	}
	return buffer, nil
}

func describeUser(user *marketplace.User) string {
	name := user.DisplayName()
	if name == user.EmailID {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, user.EmailID)
}
