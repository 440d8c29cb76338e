// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/secret"
	"github.com/skillbridge/skillbridge/lib/validate"
	"github.com/skillbridge/skillbridge/marketplace"
)

type registerParams struct {
	cli.JSONOutput
	FirstName    string `flag:"first-name" desc:"first name (default: prompt)"`
	LastName     string `flag:"last-name" desc:"last name (default: prompt)"`
	Email        string `flag:"email" desc:"account email (default: prompt)"`
	PasswordFile string `flag:"password-file" desc:"file containing the password; skips the confirmation prompt (default: prompt)"`
}

// RegisterCommand returns the "register" command.
func RegisterCommand(app *cli.App) *cli.Command {
	var params registerParams

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Description: `Create a marketplace account and sign in as it.

Missing names and the email are prompted for. The password is prompted
for twice with echo disabled unless --password-file is given. The
password must be at least 8 characters; the server may apply further
rules.`,
		Examples: []cli.Example{
			{
				Description: "Register interactively",
				Command:     "skillbridge register",
			},
			{
				Description: "Register from a script",
				Command:     "skillbridge register --first-name Dana --last-name Reyes --email dana@example.com --password-file pw.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			prompter := app.Prompter()
			fields := []struct {
				value *string
				label string
			}{
				{&params.FirstName, "First name"},
				{&params.LastName, "Last name"},
				{&params.Email, "Email"},
			}
			for _, field := range fields {
				if *field.value != "" {
					continue
				}
				answer, err := prompter.Line(field.label)
				if err != nil {
					return cli.Internal("%w", err)
				}
				*field.value = answer
			}

			password, confirm, err := readNewPassword(prompter, params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()
			defer confirm.Close()

			result := validate.Registration(validate.RegistrationInput{
				FirstName:       params.FirstName,
				LastName:        params.LastName,
				Email:           params.Email,
				Password:        password.String(),
				ConfirmPassword: confirm.String(),
			})
			if !result.Valid {
				return cli.Validation("%s", result.Message)
			}

			manager, err := app.Session(ctx)
			if err != nil {
				return err
			}
			user, err := manager.Register(ctx, marketplace.RegisterRequest{
				FirstName: params.FirstName,
				LastName:  params.LastName,
				EmailID:   validate.NormalizeEmail(params.Email),
				Password:  password,
			})
			if err != nil {
				return cli.FromAPIError(err, "Registration failed")
			}

			if done, err := params.EmitJSON(app.Stdout, cli.WithoutToken(user)); done {
				return err
			}
			fmt.Fprintf(app.Stdout, "Registered and signed in as %s\n", describeUser(user))
			return nil
		},
	}
}

// readNewPassword returns the password and its confirmation. A password
// read from a file is its own confirmation.
func readNewPassword(prompter *cli.Prompter, passwordFile string) (*secret.Buffer, *secret.Buffer, error) {
	password, err := readPassword(prompter, passwordFile, "Password")
	if err != nil {
		return nil, nil, err
	}

	if passwordFile != "" {
		confirm, err := secret.NewFromBytes(append([]byte(nil), password.Bytes()...))
		if err != nil {
			password.Close()
			return nil, nil, cli.Internal("copying password: %w", err)
		}
		return password, confirm, nil
	}

	confirm, err := prompter.Secret("Confirm password")
	if err != nil {
		password.Close()
		return nil, nil, err
	}
	return password, confirm, nil
}
