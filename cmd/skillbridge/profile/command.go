// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile implements the "profile" command group: viewing the
// signed-in user's profile and editing it through a commented JSONC
// form file.
package profile

import (
	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
)

// Command returns the "profile" command group.
func Command(app *cli.App) *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Summary: "View and edit your profile",
		Description: `View and edit the signed-in user's profile.

Editing works on a form file: "template" writes the current profile
as commented JSON, you edit it, and "update" validates the file and
sends every field to the server.`,
		Subcommands: []*cli.Command{
			showCommand(app),
			templateCommand(app),
			updateCommand(app),
		},
		Examples: []cli.Example{
			{
				Description: "Edit your profile",
				Command:     "skillbridge profile template -o profile.jsonc && $EDITOR profile.jsonc && skillbridge profile update profile.jsonc",
			},
		},
	}
}
