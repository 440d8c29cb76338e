// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the signed-in identity of a SkillBridge client.
//
// A [Manager] holds at most one session, the server's [marketplace.User]
// record for the signed-in account, and is the only component that
// changes it. Everything else reads it through [Manager.Current], which
// returns a copy. The manager starts in [Resolving] and moves to
// [Anonymous] or [Authenticated] once [Manager.Resolve] has read the
// durable store. Login, Register and UpdateProfile are refused with
// [ErrNotResolved] until then.
//
// A successful login, registration or profile update is written to the
// [Store] before it becomes visible in memory, so a failed write leaves
// the session exactly as it was. Logout is the exception: it always
// ends in [Anonymous], even when the store cannot be cleared.
//
// Three stores are provided:
//
//   - [FileStore]: the JSON record in a 0600 file, replaced atomically.
//   - [SQLiteStore]: a key/value table in a WAL SQLite database, the
//     record wrapped in a deterministic CBOR envelope.
//   - [SealedStore]: the JSON record encrypted with age to a local
//     identity generated on first use.
//
// Log lines identify accounts by [Fingerprint], never by email or name.
package session
