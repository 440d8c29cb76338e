// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the skillbridge
// CLI.
//
// The central type is [Command], a named command with optional nested
// [Command.Subcommands], a parameter struct whose tagged fields become
// pflag flags (see [BindFlags]), and a Run function. Commands are
// assembled into a tree in cmd/skillbridge/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing and
// help output with examples. Unknown commands and flags get a
// Levenshtein "did you mean" suggestion.
//
// [App] is the runtime shared by every command: the loaded
// configuration, the marketplace client, and the session manager and
// services built on it. It is constructed once in main and opened
// lazily so that "--help" never touches the session store.
//
// Commands return categorized [ToolError]s; [FromAPIError] maps
// marketplace failures to a category and the message the user should
// see.
package cli
