// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/skillbridge/skillbridge/lib/secret"
)

// Buffer creates a secret.Buffer holding value, closed when the test
// completes.
func Buffer(t testing.TB, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}
