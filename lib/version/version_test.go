// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	saved := [...]string{Version, Commit, Dirty, BuildTime}
	t.Cleanup(func() { Version, Commit, Dirty, BuildTime = saved[0], saved[1], saved[2], saved[3] })

	Version, Commit, Dirty, BuildTime = "0.1.0-dev", "unknown", "false", ""
	if got := Info(); got != "0.1.0-dev (unknown)" {
		t.Errorf("unstamped Info() = %q", got)
	}

	Version, Commit, Dirty, BuildTime = "0.3.0", "abc1234", "true", "2026-03-14T09:00:00Z"
	if got := Info(); got != "0.3.0 (abc1234-dirty, 2026-03-14T09:00:00Z)" {
		t.Errorf("stamped Info() = %q", got)
	}
	if full := Full(); !strings.HasPrefix(full, Info()+"\n  Go: ") {
		t.Errorf("Full() = %q", full)
	}
}
