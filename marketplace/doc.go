// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package marketplace wraps the SkillBridge REST API used by the client:
// login and registration, the public profile directory, reading and
// updating a user's own profile, and direct messages.
//
// [Client] holds the API base URL and HTTP transport. Login and Register
// are unauthenticated and return the server's canonical [User] record.
// Every other call takes the current User as its credential: the record
// is serialized into the x-current-user header on each request, which is
// the protocol the backend expects. When the record carries an opaque
// Token, it is also sent as a bearer token, and the legacy header can be
// switched off with [ClientConfig].DisableLegacyUserHeader once the
// backend accepts tokens alone.
//
// Non-2xx responses are returned as [*APIError] with the HTTP status and
// the server's error text (the "error" field of the JSON body) when the
// server provided one. [UserMessage] picks the text to show the user:
// the server's message when present, otherwise a caller-supplied
// fallback. Transport and decoding failures are returned as wrapped
// errors with the "marketplace:" prefix.
//
// Each request makes exactly one attempt; there is no retry, backoff,
// or client-side timeout beyond what the caller's context imposes.
package marketplace
