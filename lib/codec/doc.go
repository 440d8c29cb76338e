// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration used for records the
// client writes to local databases.
//
// JSON remains the format of everything exchanged with the marketplace
// API and printed by the CLI. CBOR is used only at rest, where the
// deterministic encoding (sorted map keys, shortest integers, no
// indefinite lengths) means the same record always produces the same
// bytes.
package codec
