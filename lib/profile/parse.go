// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Parse strips JSONC comments and trailing commas from data, then
// decodes the result into a Form. Unknown keys are rejected so a
// misspelled field is reported instead of silently dropped.
func Parse(data []byte) (Form, error) {
	stripped := jsonc.ToJSON(data)

	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.DisallowUnknownFields()

	var form Form
	if err := decoder.Decode(&form); err != nil {
		return Form{}, fmt.Errorf("parsing profile: %w", err)
	}
	if decoder.More() {
		return Form{}, fmt.Errorf("parsing profile: unexpected data after the profile object")
	}
	return form, nil
}

// ReadFile reads a JSONC profile file from disk and parses it.
func ReadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("reading %s: %w", path, err)
	}

	form, err := Parse(data)
	if err != nil {
		return Form{}, fmt.Errorf("%s: %w", path, err)
	}
	return form, nil
}
