// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"testing"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestReport(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		output string
	}{
		{"nil", nil, 0, ""},
		{"plain", errors.New("boom"), 1, "error: boom\n"},
		{"coded", codedError{code: 4}, 4, "error: coded\n"},
		{"coded zero", codedError{code: 0}, 1, "error: coded\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if code := Report(&buffer, test.err); code != test.code {
				t.Errorf("code = %d, want %d", code, test.code)
			}
			if buffer.String() != test.output {
				t.Errorf("output = %q, want %q", buffer.String(), test.output)
			}
		})
	}
}
