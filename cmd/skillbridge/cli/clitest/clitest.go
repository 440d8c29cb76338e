// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clitest runs CLI commands against an in-memory marketplace.
//
//	env := clitest.New(t)
//	dana := env.Seed(t, "Dana", "dana@example.com")
//	env.SignIn(t, dana)
//	output, err := env.Run(t, messages.Command(env.App), "list")
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/skillbridge/cmd/skillbridge/cli"
	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/config"
	"github.com/skillbridge/skillbridge/lib/mockapi"
	"github.com/skillbridge/skillbridge/lib/session"
	"github.com/skillbridge/skillbridge/marketplace"
)

// Password is the password of every seeded user.
const Password = "pa55word!"

// Epoch is the fake clock's starting time.
var Epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// Env is a CLI App wired to a mock marketplace and a temporary session
// file.
type Env struct {
	App    *cli.App
	Server *mockapi.Server
	Clock  *clock.FakeClock
	Store  *session.FileStore
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
}

// New starts a mock marketplace and returns an Env whose App talks to
// it. The server shares the Env's fake clock.
func New(t *testing.T) *Env {
	t.Helper()

	fakeClock := clock.Fake(Epoch)
	server := mockapi.New(mockapi.Config{Clock: fakeClock, BcryptCost: bcrypt.MinCost})
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	configuration := config.Default()
	configuration.API.BaseURL = httpServer.URL

	env := &Env{
		Server: server,
		Clock:  fakeClock,
		Store:  session.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
	env.App = &cli.App{
		Config: configuration,
		Stdin:  strings.NewReader(""),
		Stdout: env.Stdout,
		Stderr: env.Stderr,
		Clock:  fakeClock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  env.Store,
	}
	t.Cleanup(func() { env.App.Close() })
	return env
}

// Seed creates a user with surname "Tester" and [Password].
func (e *Env) Seed(t *testing.T, firstName, email string) *marketplace.User {
	t.Helper()
	user, err := e.Server.SeedUser(mockapi.Seed{
		FirstName: firstName,
		LastName:  "Tester",
		EmailID:   email,
		Password:  Password,
	})
	if err != nil {
		t.Fatalf("SeedUser(%s): %v", email, err)
	}
	return user
}

// SignIn writes user to the session store as if they had logged in.
// Call before the first command runs.
func (e *Env) SignIn(t *testing.T, user *marketplace.User) {
	t.Helper()
	if err := e.Store.Save(context.Background(), user); err != nil {
		t.Fatalf("saving session: %v", err)
	}
}

// Input sets what the next prompts read.
func (e *Env) Input(text string) {
	e.App.Stdin = strings.NewReader(text)
}

// Run executes command with args and returns what it wrote to stdout.
// The stdout buffer is reset first.
func (e *Env) Run(t *testing.T, command *cli.Command, args ...string) (string, error) {
	t.Helper()
	e.Stdout.Reset()
	err := command.Execute(context.Background(), args, e.App.Logger)
	return e.Stdout.String(), err
}

// StoredUser returns the record in the session store, or nil.
func (e *Env) StoredUser(t *testing.T) *marketplace.User {
	t.Helper()
	user, err := e.Store.Load(context.Background())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil
		}
		t.Fatalf("loading session: %v", err)
	}
	return user
}
