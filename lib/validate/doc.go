// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate holds the client-side field checks applied before any
// request reaches the marketplace API: email shape, password strength,
// mobile number length by country calling code, profile summary length,
// required fields, and the registration form preconditions.
//
// Every check is a pure function returning a [Result]. An invalid
// Result carries a message suitable for showing to the user as-is.
// Nothing in this package logs or touches the network.
package validate
