// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skillbridge/skillbridge/lib/secret"
	"github.com/skillbridge/skillbridge/marketplace"
)

// State is the manager's view of whether a user is signed in.
type State int

const (
	// Resolving is the initial state, before the store has been read.
	Resolving State = iota
	// Anonymous means no user is signed in.
	Anonymous
	// Authenticated means a session record is held.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when none is active. No request is made.
	ErrNotAuthenticated = errors.New("session: not signed in")

	// ErrNotResolved is returned by Login, Register and UpdateProfile
	// before Resolve has completed.
	ErrNotResolved = errors.New("session: stored session not yet resolved")
)

// Backend is the subset of the marketplace API the manager calls.
// *marketplace.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email string, password *secret.Buffer) (*marketplace.User, error)
	Register(ctx context.Context, request marketplace.RegisterRequest) (*marketplace.User, error)
	User(ctx context.Context, credential *marketplace.User, userID string) (*marketplace.User, error)
	UpdateUser(ctx context.Context, credential *marketplace.User, userID string, update marketplace.ProfileUpdate) (*marketplace.User, error)
}

var _ Backend = (*marketplace.Client)(nil)

// ManagerConfig holds the dependencies of a Manager.
type ManagerConfig struct {
	// Backend performs the network calls. Required.
	Backend Backend
	// Store persists the session. Required.
	Store Store
	// Logger receives identity transitions. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Manager owns the current session. Safe for concurrent use. Network
// calls are made without holding the session lock; store writes and
// the in-memory update that follows them are serialized so the store
// and memory never disagree about which record won.
type Manager struct {
	backend Backend
	store   Store
	logger  *slog.Logger

	// writeMu serializes store writes with their in-memory commit.
	writeMu sync.Mutex

	mu       sync.RWMutex
	state    State
	user     *marketplace.User
	resolved chan struct{}
}

// NewManager returns a Manager in the Resolving state.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Backend == nil {
		return nil, errors.New("session: Backend is required")
	}
	if config.Store == nil {
		return nil, errors.New("session: Store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:  config.Backend,
		store:    config.Store,
		logger:   logger,
		state:    Resolving,
		resolved: make(chan struct{}),
	}, nil
}

// Resolve reads the store once and leaves Resolving. A missing,
// unreadable or corrupt record resolves to Anonymous; the latter two
// are logged. Calls after the first return the current state without
// reading the store again.
func (m *Manager) Resolve(ctx context.Context) State {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()
	if state != Resolving {
		return state
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	// A Logout or a concurrent Resolve may have finished while this
	// call waited for writeMu.
	m.mu.RLock()
	state = m.state
	m.mu.RUnlock()
	if state != Resolving {
		return state
	}

	user, err := m.store.Load(ctx)
	switch {
	case err == nil:
		m.logger.Info("session restored", "user", Fingerprint(user.ID))
	case errors.Is(err, ErrNoSession):
		user = nil
	default:
		m.logger.Warn("stored session unreadable, continuing signed out", "error", err)
		user = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(user)
	return m.state
}

// WaitResolved blocks until the manager has left Resolving or ctx is
// done.
func (m *Manager) WaitResolved(ctx context.Context) error {
	select {
	case <-m.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the session record, or nil when no user is
// signed in.
func (m *Manager) Current() *marketplace.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// Login authenticates with email and password. On success the server's
// record is persisted and becomes the session. On any failure the
// session is unchanged. The password buffer is not closed.
func (m *Manager) Login(ctx context.Context, email string, password *secret.Buffer) (*marketplace.User, error) {
	if err := m.requireResolved(); err != nil {
		return nil, err
	}
	user, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.logger.Warn("login failed", "account", Fingerprint(email), "error", err)
		return nil, err
	}
	if err := m.commit(ctx, user, ""); err != nil {
		return nil, err
	}
	m.logger.Info("signed in", "user", Fingerprint(user.ID))
	return user.Clone(), nil
}

// Register creates an account and signs in as it, with the same
// failure semantics as Login. The caller is responsible for checking
// the registration form first (see validate.Registration).
func (m *Manager) Register(ctx context.Context, request marketplace.RegisterRequest) (*marketplace.User, error) {
	if err := m.requireResolved(); err != nil {
		return nil, err
	}
	user, err := m.backend.Register(ctx, request)
	if err != nil {
		m.logger.Warn("registration failed", "account", Fingerprint(request.EmailID), "error", err)
		return nil, err
	}
	if err := m.commit(ctx, user, ""); err != nil {
		return nil, err
	}
	m.logger.Info("registered and signed in", "user", Fingerprint(user.ID))
	return user.Clone(), nil
}

// Logout clears the store and the in-memory session. A store failure
// is logged, not returned: the manager is Anonymous afterwards in every
// case. Logging out while anonymous is a no-op apart from the store
// clear.
func (m *Manager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("clearing stored session failed", "error", err)
	}

	m.mu.Lock()
	previous := m.user
	m.setLocked(nil)
	m.mu.Unlock()

	if previous != nil {
		m.logger.Info("signed out", "user", Fingerprint(previous.ID))
	}
}

// UpdateProfile sends a partial profile update authenticated as the
// current session. The server's returned record replaces the session
// and is persisted. Without a session it returns ErrNotAuthenticated
// and makes no request.
func (m *Manager) UpdateProfile(ctx context.Context, update marketplace.ProfileUpdate) (*marketplace.User, error) {
	if err := m.requireResolved(); err != nil {
		return nil, err
	}
	current := m.Current()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	updated, err := m.backend.UpdateUser(ctx, current, current.ID, update)
	if err != nil {
		m.logger.Warn("profile update failed", "user", Fingerprint(current.ID), "error", err)
		return nil, err
	}
	carryToken(updated, current)
	if err := m.commit(ctx, updated, current.ID); err != nil {
		return nil, err
	}
	m.logger.Info("profile updated", "user", Fingerprint(updated.ID))
	return updated.Clone(), nil
}

// Refresh replaces the session with the server's current record for
// the signed-in user. Without a session it returns ErrNotAuthenticated.
func (m *Manager) Refresh(ctx context.Context) (*marketplace.User, error) {
	if err := m.requireResolved(); err != nil {
		return nil, err
	}
	current := m.Current()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	fresh, err := m.backend.User(ctx, current, current.ID)
	if err != nil {
		return nil, err
	}
	carryToken(fresh, current)
	if err := m.commit(ctx, fresh, current.ID); err != nil {
		return nil, err
	}
	return fresh.Clone(), nil
}

// carryToken keeps the session token when the server's record omits it.
// Profile endpoints return the stored user, which does not include the
// token issued at login.
func carryToken(fresh, current *marketplace.User) {
	if fresh.Token == "" {
		fresh.Token = current.Token
	}
}

// commit persists user and then makes it the session. When subject is
// non-empty the commit only applies if that user is still signed in.
func (m *Manager) commit(ctx context.Context, user *marketplace.User, subject string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if subject != "" {
		m.mu.RLock()
		stillSignedIn := m.user != nil && m.user.ID == subject
		m.mu.RUnlock()
		if !stillSignedIn {
			return ErrNotAuthenticated
		}
	}

	if err := m.store.Save(ctx, user); err != nil {
		m.logger.Error("persisting session failed", "user", Fingerprint(user.ID), "error", err)
		return fmt.Errorf("session: persisting session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(user.Clone())
	return nil
}

func (m *Manager) requireResolved() error {
	if m.State() == Resolving {
		return ErrNotResolved
	}
	return nil
}

// setLocked installs user (nil for signed out) and leaves Resolving if
// still there. Caller holds m.mu.
func (m *Manager) setLocked(user *marketplace.User) {
	if m.state == Resolving {
		close(m.resolved)
	}
	m.user = user
	if user == nil {
		m.state = Anonymous
	} else {
		m.state = Authenticated
	}
}
