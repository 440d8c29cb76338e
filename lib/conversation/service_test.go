// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillbridge/skillbridge/lib/testutil"
	"github.com/skillbridge/skillbridge/marketplace"
)

type fakeIdentity struct {
	user *marketplace.User
}

func (f *fakeIdentity) Current() *marketplace.User { return f.user.Clone() }

// fakeBackend counts calls. When gate is non-nil, fetches block until
// it is closed or their context ends.
type fakeBackend struct {
	conversationCalls atomic.Int32
	messageCalls      atomic.Int32
	sendCalls         atomic.Int32

	gate          chan struct{}
	conversations []marketplace.ConversationSummary
	messages      []marketplace.Message
	sendErr       error

	mu   sync.Mutex
	sent []marketplace.SendMessageRequest
}

func (f *fakeBackend) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	select {
	case <-f.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) Conversations(ctx context.Context, credential *marketplace.User) ([]marketplace.ConversationSummary, error) {
	f.conversationCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.conversations, nil
}

func (f *fakeBackend) Messages(ctx context.Context, credential *marketplace.User, contactID string) ([]marketplace.Message, error) {
	f.messageCalls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.messages, nil
}

// waitForCalls polls counter until it reaches want.
func waitForCalls(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for counter.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("backend calls = %d, want %d", counter.Load(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *fakeBackend) SendMessage(ctx context.Context, credential *marketplace.User, request marketplace.SendMessageRequest) (*marketplace.Message, error) {
	f.sendCalls.Add(1)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.mu.Lock()
	f.sent = append(f.sent, request)
	count := len(f.sent)
	f.mu.Unlock()
	return &marketplace.Message{
		ID:         fmt.Sprintf("m-new-%d", count),
		SenderID:   credential.ID,
		ReceiverID: request.ReceiverID,
		Content:    request.Content,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newTestService(t *testing.T, backend *fakeBackend, user *marketplace.User) *Service {
	t.Helper()
	service, err := New(Config{
		Backend: backend,
		Session: &fakeIdentity{user: user},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return service
}

var signedIn = &marketplace.User{ID: "u-1", EmailID: "ada@example.com"}

func TestListConversations(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		backend := &fakeBackend{}
		service := newTestService(t, backend, nil)
		if _, err := service.ListConversations(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
			t.Fatalf("err = %v, want ErrNotAuthenticated", err)
		}
		if backend.conversationCalls.Load() != 0 {
			t.Error("request made without a session")
		}
	})

	t.Run("empty list is non-nil", func(t *testing.T) {
		service := newTestService(t, &fakeBackend{}, signedIn)
		conversations, err := service.ListConversations(context.Background())
		if err != nil {
			t.Fatalf("ListConversations: %v", err)
		}
		if conversations == nil || len(conversations) != 0 {
			t.Errorf("got %#v, want empty non-nil slice", conversations)
		}
	})

	t.Run("overlapping fetches share a request", func(t *testing.T) {
		backend := &fakeBackend{
			gate:          make(chan struct{}),
			conversations: []marketplace.ConversationSummary{{ContactID: "u-2", ContactName: "Grace"}},
		}
		service := newTestService(t, backend, signedIn)

		const callers = 5
		var waitGroup sync.WaitGroup
		var started atomic.Int32
		results := make([][]marketplace.ConversationSummary, callers)
		for index := range callers {
			waitGroup.Add(1)
			go func() {
				defer waitGroup.Done()
				started.Add(1)
				conversations, err := service.ListConversations(context.Background())
				if err != nil {
					t.Errorf("caller %d: %v", index, err)
				}
				results[index] = conversations
			}()
		}

		// Let every caller join the in-flight request before releasing it.
		deadline := time.Now().Add(2 * time.Second)
		for (started.Load() < callers || backend.conversationCalls.Load() == 0) && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		close(backend.gate)
		waitGroup.Wait()

		if calls := backend.conversationCalls.Load(); calls != 1 {
			t.Errorf("backend called %d times, want 1", calls)
		}
		results[0][0].ContactName = "mutated"
		if results[1][0].ContactName != "Grace" {
			t.Error("callers share the same slice")
		}
	})
}

func TestListMessages(t *testing.T) {
	backend := &fakeBackend{messages: []marketplace.Message{{ID: "m-2"}, {ID: "m-1"}}}
	service := newTestService(t, backend, signedIn)

	if _, err := service.ListMessages(context.Background(), ""); !errors.Is(err, ErrMissingContact) {
		t.Errorf("empty contact: err = %v", err)
	}

	messages, err := service.ListMessages(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m-2" {
		t.Errorf("server order not preserved: %+v", messages)
	}
}

func TestListMessagesSurvivesOtherCallerCancel(t *testing.T) {
	backend := &fakeBackend{
		gate:     make(chan struct{}),
		messages: []marketplace.Message{{ID: "m-1", Content: "hello"}},
	}
	service := newTestService(t, backend, signedIn)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := service.ListMessages(firstCtx, "u-2")
		firstDone <- err
	}()
	waitForCalls(t, &backend.messageCalls, 1)

	type result struct {
		messages []marketplace.Message
		err      error
	}
	secondDone := make(chan result, 1)
	go func() {
		messages, err := service.ListMessages(context.Background(), "u-2")
		secondDone <- result{messages, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := testutil.RequireReceive(t, firstDone, 5*time.Second, "cancelled caller did not return"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(backend.gate)
	second := testutil.RequireReceive(t, secondDone, 5*time.Second, "live caller did not return")
	if second.err != nil {
		t.Fatalf("live caller err = %v", second.err)
	}
	if len(second.messages) != 1 || second.messages[0].ID != "m-1" {
		t.Errorf("live caller messages = %+v", second.messages)
	}
}

func TestSendMessageStartsFreshThreadFetch(t *testing.T) {
	backend := &fakeBackend{gate: make(chan struct{})}
	service := newTestService(t, backend, signedIn)

	done := make(chan error, 2)
	go func() {
		_, err := service.ListMessages(context.Background(), "u-2")
		done <- err
	}()
	waitForCalls(t, &backend.messageCalls, 1)

	if _, err := service.SendMessage(context.Background(), "u-2", "new message"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	go func() {
		_, err := service.ListMessages(context.Background(), "u-2")
		done <- err
	}()
	// The fetch that began before the send must not be shared.
	waitForCalls(t, &backend.messageCalls, 2)

	close(backend.gate)
	for range 2 {
		if err := testutil.RequireReceive(t, done, 5*time.Second, "fetch did not return"); err != nil {
			t.Errorf("ListMessages: %v", err)
		}
	}
}

func TestSendMessagePreconditions(t *testing.T) {
	tests := []struct {
		name       string
		user       *marketplace.User
		receiverID string
		content    string
		want       error
	}{
		{name: "empty content", user: signedIn, receiverID: "u-2", content: "", want: ErrEmptyMessage},
		{name: "whitespace only", user: signedIn, receiverID: "u-2", content: " \n\t ", want: ErrEmptyMessage},
		{name: "too long", user: signedIn, receiverID: "u-2", content: strings.Repeat("a", MaxContentLength+1), want: ErrMessageTooLong},
		{name: "missing recipient", user: signedIn, receiverID: "", content: "hi", want: ErrMissingRecipient},
		{name: "signed out", user: nil, receiverID: "u-2", content: "hi", want: ErrNotAuthenticated},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend := &fakeBackend{}
			service := newTestService(t, backend, test.user)
			if _, err := service.SendMessage(context.Background(), test.receiverID, test.content); !errors.Is(err, test.want) {
				t.Errorf("err = %v, want %v", err, test.want)
			}
			if calls := backend.sendCalls.Load(); calls != 0 {
				t.Errorf("backend called %d times", calls)
			}
		})
	}
}

func TestSendMessageTrimsContent(t *testing.T) {
	backend := &fakeBackend{}
	service := newTestService(t, backend, signedIn)

	content := strings.Repeat("é", MaxContentLength)
	if _, err := service.SendMessage(context.Background(), "u-2", "  "+content+"\n"); err != nil {
		t.Fatalf("SendMessage at the bound: %v", err)
	}
	if backend.sent[0].Content != content {
		t.Error("content was not trimmed")
	}
}

func TestThread(t *testing.T) {
	t.Run("send appends the server message and clears the draft", func(t *testing.T) {
		backend := &fakeBackend{messages: []marketplace.Message{{ID: "m-1", Content: "earlier"}}}
		thread := newTestService(t, backend, signedIn).Thread("u-2")

		if err := thread.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		thread.SetDraft("  hello there  ")
		message, err := thread.Send(context.Background())
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		if message.Content != "hello there" {
			t.Errorf("sent content = %q", message.Content)
		}

		messages := thread.Messages()
		if len(messages) != 2 || messages[1].ID != message.ID {
			t.Errorf("messages = %+v", messages)
		}
		if thread.Draft() != "" {
			t.Errorf("draft = %q, want cleared", thread.Draft())
		}
		if backend.messageCalls.Load() != 1 {
			t.Error("send triggered a re-fetch")
		}
		if thread.Loading() || thread.Sending() {
			t.Error("flags not cleared")
		}
	})

	t.Run("failed send keeps the draft", func(t *testing.T) {
		backend := &fakeBackend{sendErr: &marketplace.APIError{StatusCode: http.StatusInternalServerError}}
		thread := newTestService(t, backend, signedIn).Thread("u-2")
		thread.SetDraft("retry me")

		if _, err := thread.Send(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if thread.Draft() != "retry me" {
			t.Errorf("draft = %q, want preserved", thread.Draft())
		}
		if len(thread.Messages()) != 0 {
			t.Error("failed send appended a message")
		}
		if thread.Sending() {
			t.Error("sending flag not cleared")
		}
	})

	t.Run("empty draft makes no request", func(t *testing.T) {
		backend := &fakeBackend{}
		thread := newTestService(t, backend, signedIn).Thread("u-2")
		if _, err := thread.Send(context.Background()); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("err = %v, want ErrEmptyMessage", err)
		}
		if backend.sendCalls.Load() != 0 {
			t.Error("request made for empty draft")
		}
	})

	t.Run("send during load keeps the sent message", func(t *testing.T) {
		backend := &fakeBackend{
			gate:     make(chan struct{}),
			messages: []marketplace.Message{{ID: "m-1", Content: "earlier"}},
		}
		thread := newTestService(t, backend, signedIn).Thread("u-2")

		loaded := make(chan error, 1)
		go func() { loaded <- thread.Load(context.Background()) }()
		waitForCalls(t, &backend.messageCalls, 1)

		thread.SetDraft("hello")
		message, err := thread.Send(context.Background())
		if err != nil {
			t.Fatalf("Send: %v", err)
		}

		close(backend.gate)
		if err := testutil.RequireReceive(t, loaded, 5*time.Second, "Load did not return"); err != nil {
			t.Fatalf("Load: %v", err)
		}

		messages := thread.Messages()
		if len(messages) != 2 || messages[0].ID != "m-1" || messages[1].ID != message.ID {
			t.Errorf("messages = %+v, want m-1 then %s", messages, message.ID)
		}
	})

	t.Run("load does not duplicate a sent message the server returns", func(t *testing.T) {
		backend := &fakeBackend{gate: make(chan struct{})}
		thread := newTestService(t, backend, signedIn).Thread("u-2")

		loaded := make(chan error, 1)
		go func() { loaded <- thread.Load(context.Background()) }()
		waitForCalls(t, &backend.messageCalls, 1)

		thread.SetDraft("hello")
		message, err := thread.Send(context.Background())
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		backend.messages = []marketplace.Message{*message}

		close(backend.gate)
		if err := testutil.RequireReceive(t, loaded, 5*time.Second, "Load did not return"); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if messages := thread.Messages(); len(messages) != 1 {
			t.Errorf("messages = %+v, want the sent message once", messages)
		}
	})

	t.Run("messages returns a copy", func(t *testing.T) {
		backend := &fakeBackend{messages: []marketplace.Message{{ID: "m-1", Content: "original"}}}
		thread := newTestService(t, backend, signedIn).Thread("u-2")
		if err := thread.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		thread.Messages()[0].Content = "changed"
		if thread.Messages()[0].Content != "original" {
			t.Error("Messages exposes internal state")
		}
	})
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Config{Session: &fakeIdentity{}}); err == nil {
		t.Error("expected error without backend")
	}
	if _, err := New(Config{Backend: &fakeBackend{}}); err == nil {
		t.Error("expected error without session")
	}
}
