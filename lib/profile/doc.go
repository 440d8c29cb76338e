// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile stages edits to the signed-in user's profile.
//
// A [Form] is a flat, editable copy of the profile fields of a
// [marketplace.User], built by [FromUser] with defaults for fields the
// user has never set. It round-trips through a JSONC file so the CLI
// can hand it to an editor: [Form.WriteTemplate] writes the file with
// comments listing the accepted values and [Parse] reads it back,
// ignoring comments and trailing commas. [Form.Validate] applies the
// field rules from lib/validate, and [Form.Update] produces the update
// request with the address fields nested.
package profile
