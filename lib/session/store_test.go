// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/skillbridge/skillbridge/lib/clock"
	"github.com/skillbridge/skillbridge/lib/codec"
	"github.com/skillbridge/skillbridge/lib/config"
	"github.com/skillbridge/skillbridge/marketplace"
)

func sampleRecord() *marketplace.User {
	return &marketplace.User{
		ID:        "u-1",
		EmailID:   "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   &marketplace.Address{City: "London"},
		Extra:     map[string]json.RawMessage{"photoUrl": json.RawMessage(`"https://cdn.example.com/a.png"`)},
	}
}

// exerciseStore runs the behavior every Store must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load on empty store = %v, want ErrNoSession", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := store.Save(ctx, sampleRecord()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != "u-1" || loaded.Address == nil || loaded.Address.City != "London" {
		t.Errorf("loaded record = %+v", loaded)
	}
	if string(loaded.Extra["photoUrl"]) != `"https://cdn.example.com/a.png"` {
		t.Errorf("unmodeled field lost: %v", loaded.Extra)
	}

	replacement := sampleRecord()
	replacement.FirstName = "Augusta"
	if err := store.Save(ctx, replacement); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	loaded, err = store.Load(ctx)
	if err != nil || loaded.FirstName != "Augusta" {
		t.Errorf("Load after overwrite = %+v, %v", loaded, err)
	}

	if err := store.Save(ctx, &marketplace.User{}); err == nil {
		t.Error("Save accepted a record without an id")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load after Clear = %v, want ErrNoSession", err)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "skillbridge", "session.json")
	store := NewFileStore(path)
	exerciseStore(t, store)

	if _, err := store.SavedAt(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("SavedAt with nothing stored = %v, want ErrNoSession", err)
	}
	if err := store.Save(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("session file mode = %o, want 600", mode)
	}
	directoryInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat directory: %v", err)
	}
	if mode := directoryInfo.Mode().Perm(); mode != 0o700 {
		t.Errorf("directory mode = %o, want 700", mode)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("Load of corrupt record = %v, want a decode error", err)
	}

	if err := os.WriteFile(path, []byte(`{"emailId":"x@example.com"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Load of record without id = %v, want ErrInvalidRecord", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 30, 0, 250*int(time.Millisecond), time.UTC))
	store, err := OpenSQLiteStore(SQLiteStoreConfig{
		Path:   filepath.Join(t.TempDir(), "session.db"),
		Logger: testLogger(),
		Clock:  fake,
	})
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)

	if err := store.Save(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	savedAt, err := store.SavedAt(context.Background())
	if err != nil {
		t.Fatalf("SavedAt: %v", err)
	}
	if !savedAt.Equal(fake.Now()) {
		t.Errorf("SavedAt = %v, want %v", savedAt, fake.Now())
	}
}

func TestSQLiteStoreRejectsUnknownEnvelopeVersion(t *testing.T) {
	store, err := OpenSQLiteStore(SQLiteStoreConfig{Path: filepath.Join(t.TempDir(), "session.db")})
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	value, err := codec.Marshal(storedRecord{Version: 99, Record: []byte(`{"id":"u-1"}`)})
	if err != nil {
		t.Fatal(err)
	}
	conn, err := store.pool.Take(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	err = execInsert(conn, value)
	store.pool.Put(conn)
	if err != nil {
		t.Fatalf("inserting raw row: %v", err)
	}

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error for unknown envelope version")
	}
	if _, err := store.SavedAt(context.Background()); err == nil {
		t.Error("expected SavedAt error for unknown envelope version")
	}
}

func TestSealedStore(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "session.age")
	identity := filepath.Join(directory, "identity.txt")

	store, err := OpenSealedStore(path, identity)
	if err != nil {
		t.Fatalf("OpenSealedStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)

	if err := store.Save(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if json.Valid(raw) {
		t.Error("sealed record is readable JSON")
	}

	reopened, err := OpenSealedStore(path, identity)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()
	if reopened.Recipient() != store.Recipient() {
		t.Error("identity regenerated on reopen")
	}
	loaded, err := reopened.Load(context.Background())
	if err != nil || loaded.ID != "u-1" {
		t.Errorf("Load via reopened store = %+v, %v", loaded, err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv(SessionFileEnv, "")

	if got := DefaultPath(config.BackendFile); got != "/xdg/skillbridge/session.json" {
		t.Errorf("file path = %q", got)
	}
	if got := DefaultPath(config.BackendSQLite); got != "/xdg/skillbridge/session.db" {
		t.Errorf("sqlite path = %q", got)
	}

	t.Setenv(SessionFileEnv, "/explicit/session.json")
	if got := DefaultPath(config.BackendFile); got != "/explicit/session.json" {
		t.Errorf("file path with override = %q", got)
	}
}

func TestOpenStore(t *testing.T) {
	directory := t.TempDir()
	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendSealed} {
		t.Run(backend, func(t *testing.T) {
			store, err := OpenStore(config.SessionConfig{
				Backend: backend,
				Path:    filepath.Join(directory, backend, "session"),
			}, testLogger())
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer store.Close()
			if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoSession) {
				t.Errorf("Load = %v, want ErrNoSession", err)
			}
		})
	}

	if _, err := OpenStore(config.SessionConfig{Backend: "redis"}, testLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFingerprint(t *testing.T) {
	first := Fingerprint("u-1")
	if len(first) != 12 {
		t.Errorf("fingerprint length = %d, want 12", len(first))
	}
	if Fingerprint("u-1") != first {
		t.Error("fingerprint not stable")
	}
	if Fingerprint("u-2") == first {
		t.Error("different identifiers share a fingerprint")
	}
	if Fingerprint("") != "" {
		t.Error("empty identifier should have an empty fingerprint")
	}
}

func execInsert(conn *sqlite.Conn, value []byte) error {
	return sqlitex.Execute(conn,
		"INSERT INTO storage (storage_key, value) VALUES (?, ?)",
		&sqlitex.ExecOptions{Args: []any{StorageKey, value}})
}
