// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitCoder is implemented by errors that choose the process exit
// status.
type ExitCoder interface {
	ExitCode() int
}

// Exit reports err on stderr as "error: <err>" and exits. The status
// comes from the first ExitCoder in err's chain, or is 1 when there is
// none. A nil err exits 0.
func Exit(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes the "error: <err>" line for err to w and returns the
// exit status Exit would use.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "error: %v\n", err)
	var coder ExitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}
