// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/config"
	"github.com/skillbridge/skillbridge/lib/conversation"
	"github.com/skillbridge/skillbridge/lib/directory"
	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

// App is the runtime shared by all commands. Fields are set by main
// (or a test) before the first command runs; the client, session
// manager and services are built on first use.
type App struct {
	// Config is the loaded configuration. Nil means config.Default().
	Config *config.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clock supplies "now" for relative time labels. Nil means the
	// real clock.
	Clock clock.Clock

	// Logger receives component diagnostics. Nil discards them.
	Logger *slog.Logger

	// Store replaces the configured session store when set.
	Store session.Store

	// HTTPClient is passed to the marketplace client. Nil uses the
	// client's default.
	HTTPClient *http.Client

	openOnce      sync.Once
	openErr       error
	client        *marketplace.Client
	manager       *session.Manager
	conversations *conversation.Service
	directory     *directory.Directory
	storeCloser   io.Closer
}

func (a *App) open() error {
	a.openOnce.Do(func() {
		a.openErr = a.build()
	})
	return a.openErr
}

func (a *App) build() error {
	if a.Config == nil {
		a.Config = config.Default()
	}
	if a.Logger == nil {
		a.Logger = slog.New(slog.DiscardHandler)
	}

	client, err := marketplace.NewClient(marketplace.ClientConfig{
		BaseURL:                 a.Config.API.BaseURL,
		HTTPClient:              a.HTTPClient,
		Logger:                  a.Logger,
		DisableLegacyUserHeader: !a.Config.API.LegacyUserHeader,
	})
	if err != nil {
		return Internal("configuring API client: %w", err)
	}

	store := a.Store
	if store == nil {
		opened, err := session.OpenStore(a.Config.Session, a.Logger)
		if err != nil {
			return Internal("opening session store: %w", err)
		}
		store = opened
		a.storeCloser = opened
	}

	manager, err := session.NewManager(session.ManagerConfig{Backend: client, Store: store, Logger: a.Logger})
	if err != nil {
		return Internal("%w", err)
	}
	conversations, err := conversation.New(conversation.Config{Backend: client, Session: manager, Logger: a.Logger})
	if err != nil {
		return Internal("%w", err)
	}
	listing, err := directory.New(client, manager)
	if err != nil {
		return Internal("%w", err)
	}

	a.client = client
	a.manager = manager
	a.conversations = conversations
	a.directory = listing
	return nil
}

// Session returns the session manager with the stored session
// resolved.
func (a *App) Session(ctx context.Context) (*session.Manager, error) {
	if err := a.open(); err != nil {
		return nil, err
	}
	a.manager.Resolve(ctx)
	return a.manager, nil
}

// SignedIn returns the session manager and the current user, or a
// forbidden error when nobody is signed in.
func (a *App) SignedIn(ctx context.Context) (*session.Manager, *marketplace.User, error) {
	manager, err := a.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	user := manager.Current()
	if user == nil {
		return nil, nil, Forbidden(NotSignedInMessage)
	}
	return manager, user, nil
}

// Conversations returns the messaging service.
func (a *App) Conversations(ctx context.Context) (*conversation.Service, error) {
	if _, err := a.Session(ctx); err != nil {
		return nil, err
	}
	return a.conversations, nil
}

// Directory returns the public directory.
func (a *App) Directory(ctx context.Context) (*directory.Directory, error) {
	if _, err := a.Session(ctx); err != nil {
		return nil, err
	}
	return a.directory, nil
}

// Prompter returns a prompter reading Stdin and prompting on Stderr.
// It buffers input, so a command takes one and uses it for all of its
// questions.
func (a *App) Prompter() *Prompter {
	return NewPrompter(a.Stdin, a.Stderr)
}

// Now returns the current time from Clock.
func (a *App) Now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

// Close releases the session store if App opened it.
func (a *App) Close() error {
	if a.storeCloser != nil {
		return a.storeCloser.Close()
	}
	return nil
}
