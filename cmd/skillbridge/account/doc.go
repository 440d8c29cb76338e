// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package account implements the identity commands: login, register,
// logout and whoami. Each persists or clears the session through the
// shared session manager, so later commands pick up the result without
// flags.
package account
