// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small records at rest with age.
//
// A local x25519 identity is kept in a 0600 file next to the data it
// protects; [LoadOrCreateIdentity] generates it on first use. [Encrypt]
// produces binary age ciphertext for one or more recipients and
// [Decrypt] returns the plaintext in a [secret.Buffer] so that a
// decrypted session record does not linger on the Go heap longer than
// the decoding step that consumes it.
//
// Depends on filippo.io/age and lib/secret.
package sealed
