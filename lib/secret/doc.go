// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords outside the Go heap.
//
// A [Buffer] is an anonymous mmap region, locked against swap and
// excluded from core dumps. Close zeroes and unmaps it. Passwords typed
// at a prompt or read from a file go straight into a Buffer and are
// only turned into a Go string at the JSON boundary of the one request
// that sends them.
//
// Depends on golang.org/x/sys/unix.
package secret
