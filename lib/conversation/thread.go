// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"context"
	"slices"
	"sync"

	"github.com/skillbridge/skillbridge/marketplace"
)

// Thread is the client-side state of one conversation. Safe for
// concurrent use.
type Thread struct {
	service   *Service
	contactID string

	mu       sync.Mutex
	messages []marketplace.Message
	draft    string
	loading  int
	sending  int

	// sent numbers successful sends. While a Load is in flight, sent
	// messages are also kept in confirmed so the Load can restore any
	// its older snapshot lacks.
	sent      int
	confirmed []confirmedMessage
}

type confirmedMessage struct {
	sequence int
	message  marketplace.Message
}

// Thread returns an empty thread with contactID. Call Load to fetch
// its messages.
func (s *Service) Thread(contactID string) *Thread {
	return &Thread{service: s, contactID: contactID}
}

// ContactID returns the other participant's user id.
func (t *Thread) ContactID() string { return t.contactID }

// Load replaces the held messages with the server's thread. Messages
// sent while the fetch was in flight and missing from its result are
// kept at the end. On failure the held messages are kept.
func (t *Thread) Load(ctx context.Context) error {
	t.mu.Lock()
	t.loading++
	startedAfter := t.sent
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.loading--
		if t.loading == 0 {
			t.confirmed = nil
		}
		t.mu.Unlock()
	}()

	messages, err := t.service.ListMessages(ctx, t.contactID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fetched := make(map[string]bool, len(messages))
	for _, message := range messages {
		fetched[message.ID] = true
	}
	for _, entry := range t.confirmed {
		if entry.sequence > startedAfter && !fetched[entry.message.ID] {
			messages = append(messages, entry.message)
		}
	}
	t.messages = messages
	return nil
}

// SetDraft replaces the unsent message text.
func (t *Thread) SetDraft(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = text
}

// Draft returns the unsent message text.
func (t *Thread) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// Send sends the draft. On success the server's message is appended
// and the draft is cleared, unless it was edited while the send was in
// flight. On failure the draft is kept.
func (t *Thread) Send(ctx context.Context) (*marketplace.Message, error) {
	t.mu.Lock()
	draft := t.draft
	t.sending++
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.sending--
		t.mu.Unlock()
	}()

	message, err := t.service.SendMessage(ctx, t.contactID, draft)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent++
	if t.loading > 0 {
		t.confirmed = append(t.confirmed, confirmedMessage{sequence: t.sent, message: *message})
	}
	t.messages = append(t.messages, *message)
	if t.draft == draft {
		t.draft = ""
	}
	return message, nil
}

// Messages returns a copy of the held messages.
func (t *Thread) Messages() []marketplace.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.messages)
}

// Loading reports whether a Load is in progress.
func (t *Thread) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading > 0
}

// Sending reports whether a Send is in progress.
func (t *Thread) Sending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sending > 0
}
