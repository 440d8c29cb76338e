// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompterPiped(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	prompter := NewPrompter(strings.NewReader("  dana@example.com \npa55 word!\r\nsecond\n"), &output)

	email, err := prompter.Line("Email")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if email != "dana@example.com" {
		t.Errorf("email = %q", email)
	}

	password, err := prompter.Secret("Password")
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	defer password.Close()
	if password.String() != "pa55 word!" {
		t.Errorf("password = %q", password.String())
	}

	confirm, err := prompter.Secret("Confirm password")
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	defer confirm.Close()
	if confirm.String() != "second" {
		t.Errorf("confirm = %q", confirm.String())
	}

	if got := output.String(); got != "Email: Password: Confirm password: " {
		t.Errorf("prompts = %q", got)
	}
}

func TestPrompterEmptySecret(t *testing.T) {
	t.Parallel()

	prompter := NewPrompter(strings.NewReader("\n"), &bytes.Buffer{})
	if _, err := prompter.Secret("Password"); err == nil {
		t.Fatal("expected error for empty secret")
	}

	prompter = NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := prompter.Secret("Password"); err == nil {
		t.Fatal("expected error at end of input")
	}
}

func TestPrompterLastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	prompter := NewPrompter(strings.NewReader("Dana"), &bytes.Buffer{})
	name, err := prompter.Line("First name")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if name != "Dana" {
		t.Errorf("name = %q", name)
	}
}
