// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/codec"
	"github.com/skillbridge/skillbridge/lib/sqlitepool"
	"github.com/skillbridge/skillbridge/marketplace"
)

const storageSchema = `
CREATE TABLE IF NOT EXISTS storage (
	storage_key TEXT PRIMARY KEY,
	value       BLOB NOT NULL
);
`

// recordVersion is the envelope version written by this package.
const recordVersion = 1

// storedRecord is the CBOR envelope kept in the value column. Record is
// the JSON session record so that unmodeled server fields survive.
// SavedAt is in Unix milliseconds.
type storedRecord struct {
	Version int    `cbor:"version"`
	SavedAt int64  `cbor:"saved_at"`
	Record  []byte `cbor:"record"`
}

// SQLiteStoreConfig configures OpenSQLiteStore.
type SQLiteStoreConfig struct {
	// Path is the database file.
	Path string
	// Logger receives pool diagnostics. If nil, logs are discarded.
	Logger *slog.Logger
	// Clock stamps saved records. If nil, the wall clock is used.
	Clock clock.Clock
}

// SQLiteStore keeps the session record in a key/value table.
type SQLiteStore struct {
	pool  *sqlitepool.Pool
	clock clock.Clock
}

var _ ClosableStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if needed) the database at
// config.Path.
func OpenSQLiteStore(config SQLiteStoreConfig) (*SQLiteStore, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   config.Path,
		Logger: config.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, storageSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session: opening sqlite store: %w", err)
	}

	storeClock := config.Clock
	if storeClock == nil {
		storeClock = clock.Real()
	}
	return &SQLiteStore{pool: pool, clock: storeClock}, nil
}

// Load reads the record stored under StorageKey.
func (s *SQLiteStore) Load(ctx context.Context) (*marketplace.User, error) {
	envelope, err := s.readEnvelope(ctx)
	if err != nil {
		return nil, err
	}
	return decodeRecord(envelope.Record)
}

// readEnvelope reads and decodes the row stored under StorageKey.
func (s *SQLiteStore) readEnvelope(ctx context.Context) (*storedRecord, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	defer s.pool.Put(conn)

	var value []byte
	found := false
	err = sqlitex.Execute(conn, "SELECT value FROM storage WHERE storage_key = ?", &sqlitex.ExecOptions{
		Args: []any{StorageKey},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session: reading stored record: %w", err)
	}
	if !found {
		return nil, ErrNoSession
	}

	var envelope storedRecord
	if err := codec.Unmarshal(value, &envelope); err != nil {
		return nil, fmt.Errorf("session: decoding stored envelope: %w", err)
	}
	if envelope.Version != recordVersion {
		return nil, fmt.Errorf("session: stored envelope version %d is not supported", envelope.Version)
	}
	return &envelope, nil
}

// Save replaces the record stored under StorageKey.
func (s *SQLiteStore) Save(ctx context.Context, user *marketplace.User) error {
	record, err := encodeRecord(user)
	if err != nil {
		return err
	}
	value, err := codec.Marshal(storedRecord{
		Version: recordVersion,
		SavedAt: s.clock.Now().UnixMilli(),
		Record:  record,
	})
	if err != nil {
		return fmt.Errorf("session: encoding envelope: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO storage (storage_key, value) VALUES (?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{StorageKey, value}})
	if err != nil {
		return fmt.Errorf("session: writing record: %w", err)
	}
	return nil
}

// Clear deletes the record stored under StorageKey.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn, "DELETE FROM storage WHERE storage_key = ?", &sqlitex.ExecOptions{
		Args: []any{StorageKey},
	}); err != nil {
		return fmt.Errorf("session: clearing record: %w", err)
	}
	return nil
}

// SavedAt returns when the stored record was last written, or the zero
// time and ErrNoSession if nothing is stored.
func (s *SQLiteStore) SavedAt(ctx context.Context) (time.Time, error) {
	envelope, err := s.readEnvelope(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(envelope.SavedAt), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.pool.Close()
}
