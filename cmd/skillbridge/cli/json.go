// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/skillbridge/skillbridge/marketplace"
)

// JSONOutput is an embeddable params struct that adds a --json flag and
// the [JSONOutput.EmitJSON] helper.
//
//	type listParams struct {
//	    cli.JSONOutput
//	    Category string `flag:"category" desc:"filter by category"`
//	}
//
//	if done, err := params.EmitJSON(app.Stdout, profiles); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON to w if --json is set.
// Returns (true, err) when it wrote (or failed to write), and
// (false, nil) when the caller should format text instead. A nil slice
// is written as [].
func (j *JSONOutput) EmitJSON(w io.Writer, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, normalizeNilSlice(result))
}

// WriteJSON marshals value as indented JSON to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}

// WithoutToken returns a copy of user with the session token cleared,
// for printing.
func WithoutToken(user *marketplace.User) *marketplace.User {
	printable := user.Clone()
	printable.Token = ""
	return printable
}
