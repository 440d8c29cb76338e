// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

type recordingT struct {
	failed  bool
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

// capture runs fn and reports whether it failed the recorded test.
func capture(fn func(*recordingT)) (recorded *recordingT) {
	recorded = &recordingT{}
	defer func() {
		if value := recover(); value != nil && value != recorded {
			panic(value)
		}
	}()
	fn(recorded)
	return recorded
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	recorded := capture(func(r *recordingT) {
		RequireReceive(r, make(chan int), 10*time.Millisecond, "waiting for %s", "nothing")
	})
	if !recorded.failed {
		t.Fatal("RequireReceive should fail on timeout")
	}
	if recorded.message != "timed out after 10ms: waiting for nothing" {
		t.Errorf("message = %q", recorded.message)
	}
}

func TestRequireClosed(t *testing.T) {
	t.Parallel()

	ch := make(chan struct{})
	close(ch)
	RequireClosed(t, ch, time.Second)

	recorded := capture(func(r *recordingT) {
		RequireClosed(r, make(chan struct{}), 10*time.Millisecond)
	})
	if !recorded.failed {
		t.Fatal("RequireClosed should fail on timeout")
	}
}
