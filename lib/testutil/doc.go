// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests waiting on goroutines fail with a message instead of
// hanging. They are the only place tests use real wall-clock timeouts;
// everything else runs on lib/clock's fake clock.
//
// [Buffer] creates a secret buffer closed at test cleanup.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
