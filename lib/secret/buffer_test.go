// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "testing"

func TestNew(t *testing.T) {
	buffer, err := New(32)
	if err != nil {
		t.Fatalf("New(32): %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 32 {
		t.Errorf("Len = %d, want 32", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("byte %d = %d, want zero", index, value)
		}
	}

	if _, err := New(0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestNewFromBytesZerosSource(t *testing.T) {
	source := []byte("correct-horse-9!")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if buffer.String() != "correct-horse-9!" {
		t.Errorf("String = %q", buffer.String())
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d not zeroed", index)
		}
	}

	if _, err := NewFromBytes(nil); err == nil {
		t.Error("expected error for empty source")
	}
}

func TestEqual(t *testing.T) {
	first, _ := NewFromString("same")
	second, _ := NewFromString("same")
	third, _ := NewFromString("diff")
	defer first.Close()
	defer second.Close()
	defer third.Close()

	if !first.Equal(second) {
		t.Error("equal buffers reported different")
	}
	if first.Equal(third) {
		t.Error("different buffers reported equal")
	}
}

func TestCloseIsIdempotentAndPanicsOnRead(t *testing.T) {
	buffer, err := NewFromString("secret")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("Len after Close = %d", buffer.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("String after Close did not panic")
		}
	}()
	_ = buffer.String()
}
