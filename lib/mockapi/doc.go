// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockapi is an in-memory implementation of the marketplace
// HTTP API for local development and tests.
//
// The server speaks the same wire format as the production backend:
// JSON envelopes ({"user": ...}, {"messages": [...]}) on success and
// {"error": "..."} on failure. Authenticated endpoints identify the
// caller from the x-current-user header, or from a bearer token issued
// at login. Passwords are stored as bcrypt hashes, ids are random
// UUIDs, and timestamps come from an injectable clock so tests can
// control message ordering.
//
//	server := mockapi.New(mockapi.Config{})
//	server.SeedUser(mockapi.Seed{EmailID: "dana@example.com", Password: "pa55word!"})
//	httpServer := httptest.NewServer(server)
package mockapi
