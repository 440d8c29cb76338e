// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that stamps or compares times takes a [Clock] instead of calling
// time.Now. Production passes [Real]; tests pass a [FakeClock] that
// only moves when told to:
//
//	c := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
//	server := mockapi.New(mockapi.Config{Clock: c})
//	c.Advance(26 * time.Hour)
package clock
