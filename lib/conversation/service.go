// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

// MaxContentLength is the longest message, in characters, the client
// will send.
const MaxContentLength = 2000

var (
	// ErrNotAuthenticated is returned when no user is signed in. No
	// request is made.
	ErrNotAuthenticated = session.ErrNotAuthenticated

	// ErrMissingContact is returned by ListMessages for an empty
	// contact id.
	ErrMissingContact = errors.New("conversation: contact id is required")

	// ErrEmptyMessage is returned when the content is empty after
	// trimming.
	ErrEmptyMessage = errors.New("conversation: message is empty")

	// ErrMessageTooLong is returned when the trimmed content exceeds
	// MaxContentLength characters.
	ErrMessageTooLong = fmt.Errorf("conversation: message exceeds %d characters", MaxContentLength)

	// ErrMissingRecipient is returned when the receiver id is empty.
	ErrMissingRecipient = errors.New("conversation: recipient is required")
)

// Backend is the subset of the marketplace API used for messaging.
// *marketplace.Client satisfies it.
type Backend interface {
	Conversations(ctx context.Context, credential *marketplace.User) ([]marketplace.ConversationSummary, error)
	Messages(ctx context.Context, credential *marketplace.User, contactID string) ([]marketplace.Message, error)
	SendMessage(ctx context.Context, credential *marketplace.User, request marketplace.SendMessageRequest) (*marketplace.Message, error)
}

var _ Backend = (*marketplace.Client)(nil)

// Identity supplies the current session record, or nil when signed
// out. *session.Manager satisfies it.
type Identity interface {
	Current() *marketplace.User
}

var _ Identity = (*session.Manager)(nil)

// Config holds the dependencies of a Service.
type Config struct {
	// Backend performs the requests. Required.
	Backend Backend
	// Session provides the credential for each request. Required.
	Session Identity
	// Logger receives request failures. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Service reads and sends messages. Safe for concurrent use.
type Service struct {
	backend Backend
	session Identity
	logger  *slog.Logger

	fetches singleflight.Group
}

// New returns a Service.
func New(config Config) (*Service, error) {
	if config.Backend == nil {
		return nil, errors.New("conversation: Backend is required")
	}
	if config.Session == nil {
		return nil, errors.New("conversation: Session is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: config.Backend, session: config.Session, logger: logger}, nil
}

// ListConversations returns the signed-in user's conversation
// summaries. No conversations is an empty, non-nil slice.
func (s *Service) ListConversations(ctx context.Context) ([]marketplace.ConversationSummary, error) {
	credential := s.session.Current()
	if credential == nil {
		return nil, ErrNotAuthenticated
	}

	key := conversationsKey(credential.ID)
	result, err := coalesce(ctx, &s.fetches, key, func(ctx context.Context) ([]marketplace.ConversationSummary, error) {
		return s.backend.Conversations(ctx, credential)
	})
	if err != nil {
		s.logFailure("loading conversations failed", err)
		return nil, err
	}
	if result == nil {
		return []marketplace.ConversationSummary{}, nil
	}
	return slices.Clone(result), nil
}

// ListMessages returns the thread with contactID in the order the
// server sent it.
func (s *Service) ListMessages(ctx context.Context, contactID string) ([]marketplace.Message, error) {
	if contactID == "" {
		return nil, ErrMissingContact
	}
	credential := s.session.Current()
	if credential == nil {
		return nil, ErrNotAuthenticated
	}

	result, err := coalesce(ctx, &s.fetches, threadKey(credential.ID, contactID), func(ctx context.Context) ([]marketplace.Message, error) {
		return s.backend.Messages(ctx, credential, contactID)
	})
	if err != nil {
		s.logFailure("loading messages failed", err, "contact", session.Fingerprint(contactID))
		return nil, err
	}
	if result == nil {
		return []marketplace.Message{}, nil
	}
	return slices.Clone(result), nil
}

// SendMessage sends content to receiverID and returns the message as
// the server stored it.
func (s *Service) SendMessage(ctx context.Context, receiverID, content string) (*marketplace.Message, error) {
	content, err := PrepareContent(content)
	if err != nil {
		return nil, err
	}
	if receiverID == "" {
		return nil, ErrMissingRecipient
	}
	credential := s.session.Current()
	if credential == nil {
		return nil, ErrNotAuthenticated
	}

	message, err := s.backend.SendMessage(ctx, credential, marketplace.SendMessageRequest{
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		s.logFailure("sending message failed", err, "contact", session.Fingerprint(receiverID))
		return nil, err
	}
	// A thread fetch already in flight started before this message
	// existed; later callers must not join it.
	s.fetches.Forget(threadKey(credential.ID, receiverID))
	s.fetches.Forget(conversationsKey(credential.ID))
	return message, nil
}

func conversationsKey(userID string) string {
	return "conversations:" + userID
}

func threadKey(userID, contactID string) string {
	return "messages:" + userID + ":" + contactID
}

// PrepareContent trims content and checks it against the send rules.
func PrepareContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrMessageTooLong
	}
	return content, nil
}

// logFailure logs transport and decoding failures at error level.
// Rejections by the server are routine and logged at debug.
func (s *Service) logFailure(message string, err error, attributes ...any) {
	attributes = append(attributes, "error", err)
	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		s.logger.Debug(message, append(attributes, "status", apiErr.StatusCode)...)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error(message, attributes...)
}

// coalesce runs fetch once per key among overlapping callers. Each
// caller stops waiting when its own context ends. The shared request is
// detached from the starting caller's cancellation, so one caller giving
// up does not fail the others.
func coalesce[T any](ctx context.Context, group *singleflight.Group, key string, fetch func(context.Context) (T, error)) (T, error) {
	shared := context.WithoutCancel(ctx)
	resultChannel := group.DoChan(key, func() (any, error) {
		return fetch(shared)
	})
	select {
	case result := <-resultChannel:
		if result.Err != nil {
			var zero T
			return zero, result.Err
		}
		return result.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
