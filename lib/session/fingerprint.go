// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a short stable token for an identifier such as a
// user id or email, for log lines that must correlate events for one
// account without recording who it is.
func Fingerprint(identifier string) string {
	if identifier == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:6])
}
