// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	// Core Deterministic Encoding: sorted map keys and shortest
	// integer forms, so equal records produce equal bytes.
	encoder = must(cbor.CoreDetEncOptions().EncMode())

	// Maps decoded into any-typed targets come out as map[string]any,
	// which encoding/json can re-encode.
	decoder = must(cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode())
)

func must[T any](mode T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("codec: building CBOR mode: %v", err))
	}
	return mode
}

// Marshal encodes v deterministically.
func Marshal(v any) ([]byte, error) {
	return encoder.Marshal(v)
}

// Unmarshal decodes data into v, ignoring fields v does not declare.
func Unmarshal(data []byte, v any) error {
	return decoder.Unmarshal(data, v)
}

// Diagnose renders data in RFC 8949 diagnostic notation, for
// inspecting stored session records.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
