// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/config"
	"github.com/skillbridge/skillbridge/marketplace"
)

// StorageKey is the key the session record is stored under.
const StorageKey = "user"

// SessionFileEnv overrides the file store location.
const SessionFileEnv = "SKILLBRIDGE_SESSION_FILE"

// ErrNoSession is returned by Store.Load when nothing is stored.
var ErrNoSession = errors.New("session: no stored session")

// ErrInvalidRecord is returned by Store.Load when the stored record
// decodes but does not identify a user.
var ErrInvalidRecord = errors.New("session: stored record has no user id")

// Store persists the session record. Implementations must be safe for
// use from multiple goroutines.
type Store interface {
	// Load returns the stored record, or ErrNoSession.
	Load(ctx context.Context) (*marketplace.User, error)
	// Save replaces the stored record.
	Save(ctx context.Context, user *marketplace.User) error
	// Clear removes the stored record. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}

// ClosableStore is a Store holding resources that must be released.
type ClosableStore interface {
	Store
	io.Closer
}

// ConfigDirectory returns $XDG_CONFIG_HOME/skillbridge, falling back to
// ~/.config/skillbridge.
func ConfigDirectory() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "skillbridge")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "skillbridge")
}

// DefaultPath returns the store location for backend when none is
// configured. The file backend honors SKILLBRIDGE_SESSION_FILE.
func DefaultPath(backend string) string {
	switch backend {
	case config.BackendSQLite:
		return filepath.Join(ConfigDirectory(), "session.db")
	case config.BackendSealed:
		return filepath.Join(ConfigDirectory(), "session.age")
	default:
		if envPath := os.Getenv(SessionFileEnv); envPath != "" {
			return envPath
		}
		return filepath.Join(ConfigDirectory(), "session.json")
	}
}

// OpenStore opens the store described by the session configuration.
func OpenStore(sessionConfig config.SessionConfig, logger *slog.Logger) (ClosableStore, error) {
	path := sessionConfig.Path
	if path == "" {
		path = DefaultPath(sessionConfig.Backend)
	}

	switch sessionConfig.Backend {
	case config.BackendFile, "":
		return NewFileStore(path), nil
	case config.BackendSQLite:
		return OpenSQLiteStore(SQLiteStoreConfig{Path: path, Logger: logger, Clock: clock.Real()})
	case config.BackendSealed:
		identityFile := sessionConfig.IdentityFile
		if identityFile == "" {
			identityFile = filepath.Join(filepath.Dir(path), "identity.txt")
		}
		return OpenSealedStore(path, identityFile)
	default:
		return nil, fmt.Errorf("session: unknown store backend %q", sessionConfig.Backend)
	}
}

// decodeRecord parses a JSON session record.
func decodeRecord(data []byte) (*marketplace.User, error) {
	var user marketplace.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session: decoding stored record: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidRecord
	}
	return &user, nil
}

// encodeRecord serializes a session record, including fields the client
// does not model.
func encodeRecord(user *marketplace.User) ([]byte, error) {
	if user == nil || user.ID == "" {
		return nil, errors.New("session: refusing to store a record without a user id")
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("session: encoding record: %w", err)
	}
	return append(data, '\n'), nil
}

// writeFileAtomic writes data to a temporary file in path's directory
// and renames it over path. The directory is created with mode 0700.
func writeFileAtomic(path string, data []byte) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("session: creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0o600); err != nil {
		temporary.Close()
		return fmt.Errorf("session: setting permissions: %w", err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("session: writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("session: syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("session: closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("session: replacing %s: %w", path, err)
	}
	return nil
}

// removeFile deletes path, treating a missing file as success.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", path, err)
	}
	return nil
}
