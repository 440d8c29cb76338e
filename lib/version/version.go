// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the skillbridge
// binaries. The variables are stamped at link time:
//
//	go build -ldflags "-X github.com/skillbridge/skillbridge/lib/version.Commit=$(git rev-parse --short HEAD)" ./cmd/...
//
// Unstamped builds report "0.1.0-dev (unknown)".
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags -X.
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	Dirty     = "false"
	BuildTime = ""
)

// Info returns the version with its commit, e.g. "0.3.0 (abc1234-dirty,
// 2026-03-14T09:00:00Z)".
func Info() string {
	commit := Commit
	if Dirty == "true" {
		commit += "-dirty"
	}
	if BuildTime == "" {
		return fmt.Sprintf("%s (%s)", Version, commit)
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, BuildTime)
}

// Full is Info followed by the Go toolchain and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s", Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
