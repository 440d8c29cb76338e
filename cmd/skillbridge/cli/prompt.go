// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/skillbridge/skillbridge/lib/secret"
)

// Prompter reads answers to interactive questions. When the input is a
// terminal, secrets are read with echo disabled; otherwise each answer
// is one line of input, which lets scripts pipe answers in.
type Prompter struct {
	input  io.Reader
	reader *bufio.Reader
	output io.Writer
}

// NewPrompter returns a Prompter reading from input and writing prompts
// to output.
func NewPrompter(input io.Reader, output io.Writer) *Prompter {
	return &Prompter{input: input, reader: bufio.NewReader(input), output: output}
}

// Line prompts for one line and returns it with surrounding whitespace
// removed.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.output, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// Secret prompts for a secret and returns it in a protected buffer. The
// caller closes the buffer. An empty answer is an error.
func (p *Prompter) Secret(label string) (*secret.Buffer, error) {
	fmt.Fprintf(p.output, "%s: ", label)

	if file, ok := p.input.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		value, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(p.output)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		return bufferFromInput(value, label)
	}

	line, err := p.reader.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		secret.Zero(line)
		return nil, fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return bufferFromInput(line, label)
}

// bufferFromInput moves the trimmed value into a secret buffer and
// zeroes the input.
func bufferFromInput(value []byte, label string) (*secret.Buffer, error) {
	trimmed := bytes.TrimRight(value, "\r\n")
	if len(trimmed) == 0 {
		secret.Zero(value)
		return nil, Validation("%s is required", strings.ToLower(label))
	}
	buffer, err := secret.NewFromBytes(trimmed)
	secret.Zero(value)
	if err != nil {
		return nil, Internal("protecting %s: %w", strings.ToLower(label), err)
	}
	return buffer, nil
}
