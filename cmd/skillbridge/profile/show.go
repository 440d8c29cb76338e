// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/marketplace"
)

type showParams struct {
	cli.JSONOutput
	Cached bool `flag:"cached" desc:"print the saved session record without contacting the server"`
}

func showCommand(app *cli.App) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print your profile",
		Description: `Fetch your current profile from the server, save it to the session,
and print it. With --cached the saved session record is printed as is.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			manager, user, err := app.SignedIn(ctx)
			if err != nil {
				return err
			}
			if !params.Cached {
				if user, err = manager.Refresh(ctx); err != nil {
					return cli.FromAPIError(err, "Failed to load profile")
				}
			}

			if done, err := params.EmitJSON(app.Stdout, cli.WithoutToken(user)); done {
				return err
			}
			writeProfile(app.Stdout, user)
			return nil
		},
	}
}

func writeProfile(w io.Writer, user *marketplace.User) {
	theme := cli.DefaultTheme
	fmt.Fprintln(w, theme.Heading.Render(user.DisplayName()))
	if user.Category != "" {
		fmt.Fprintln(w, theme.Accent.Render(user.Category))
	}
	if user.Summary != "" {
		fmt.Fprintln(w, user.Summary)
	}

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s %s\n", theme.Label.Render(fmt.Sprintf("%-13s", label+":")), value)
		}
	}
	fmt.Fprintln(w)
	row("Email", user.EmailID)
	row("Nickname", user.NickName)
	row("Alt. email", user.SecondaryEmail)
	if user.Mobile != "" {
		row("Mobile", strings.TrimSpace(user.CountryCode+" "+user.Mobile))
	}
	if user.IsWhatsappAvailable {
		row("WhatsApp", user.WhatsappNumber)
	}
	row("Work", user.WorkPreference)
	row("Availability", user.Availability)
	row("Location", location(user.Address))
	if user.StartingPrice != "" {
		price := fmt.Sprintf("%s %s (%s)", user.CurrencyCode, user.StartingPrice, rateLabel(user.RateType))
		if user.Negotiable {
			price += ", negotiable"
		}
		row("Rate", price)
	}
	row("LinkedIn", user.LinkedinURL)
	row("Facebook", user.FacebookURL)
}

func location(address *marketplace.Address) string {
	if address == nil {
		return ""
	}
	var parts []string
	for _, part := range []string{address.City, address.State, address.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func rateLabel(rateType string) string {
	switch rateType {
	case "H":
		return "hourly"
	case "D":
		return "daily"
	case "W":
		return "weekly"
	case "M":
		return "monthly"
	case "P":
		return "per project"
	default:
		return rateType
	}
}
