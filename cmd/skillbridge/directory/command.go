// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package directory implements the "directory" command, which lists
// the marketplace's public profiles with search and category filters.
package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	listing "github.com/skillbridge/skillbridge/lib/directory"
	"github.com/skillbridge/skillbridge/marketplace"
)

type directoryParams struct {
	cli.JSONOutput
	Search   string `flag:"search,s" desc:"case-insensitive text matched against name, category and summary"`
	Category string `flag:"category,c" desc:"exact category, or all" default:"all"`
}

// Command returns the "directory" command.
func Command(app *cli.App) *cli.Command {
	var params directoryParams

	return &cli.Command{
		Name:    "directory",
		Summary: "Browse public profiles",
		Description: `List the public profiles of marketplace members.

--search matches any part of a member's name, category or summary,
ignoring case. --category keeps only members in that category. Both
filters can be combined. Requires a signed-in session.

Categories: ` + strings.Join(listing.Categories, ", ") + `.`,
		Usage: "skillbridge directory [search] [flags]",
		Examples: []cli.Example{
			{
				Description: "Find designers",
				Command:     `skillbridge directory --category "UI/UX Designer"`,
			},
			{
				Description: "Search by keyword",
				Command:     "skillbridge directory react",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			filter := listing.Filter{Query: params.Search, Category: params.Category}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			if len(args) == 1 {
				if filter.Query != "" {
					return cli.Validation("search given both as --search and as an argument")
				}
				filter.Query = args[0]
			}
			if filter.Category != listing.AllCategories && !slices.Contains(listing.Categories, filter.Category) {
				return cli.Validation("unknown category %q (one of: all, %s)", filter.Category, strings.Join(listing.Categories, ", "))
			}

			browser, err := app.Directory(ctx)
			if err != nil {
				return err
			}
			profiles, err := browser.Browse(ctx, filter)
			if err != nil {
				return cli.FromAPIError(err, "Failed to load users")
			}

			if done, err := params.EmitJSON(app.Stdout, profiles); done {
				return err
			}
			writeProfiles(app.Stdout, profiles)
			return nil
		},
	}
}

func writeProfiles(w io.Writer, profiles []marketplace.PublicProfile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}

	theme := cli.DefaultTheme
	for index, profile := range profiles {
		if index > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n", theme.Heading.Render(profile.Name), theme.Faint.Render(profile.ID))
		if profile.Category != "" {
			fmt.Fprintf(w, "  %s\n", theme.Accent.Render(profile.Category))
		}
		if profile.Summary != "" {
			fmt.Fprintf(w, "  %s\n", cli.Preview(profile.Summary, cli.PreviewWidth*2))
		}
		fmt.Fprintf(w, "  %s %s\n", theme.Label.Render("Email:"), profile.EmailID)
	}
}
