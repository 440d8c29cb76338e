// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers shared by the skillbridge
// binaries, for the few places that must write to stderr before (or
// instead of) a structured logger.
package process
