// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package conversation reads and sends direct messages for the signed-in
// user.
//
// [Service] fetches the conversation list and per-contact threads with
// the current session as the credential, and sends messages after
// checking them locally: content is trimmed, and empty content, content
// longer than [MaxContentLength] characters, or a missing recipient is
// rejected before any request is made. Identical fetches that overlap
// in time (same user, same list or same contact) share one request.
// Sends never do.
//
// [Thread] is the state a screen holds for one contact: the loaded
// messages, the draft being typed, and loading/sending flags. A
// successful send appends the message the server returned, without
// re-fetching, and clears the draft. A failed send keeps the draft so
// the user can retry.
package conversation
