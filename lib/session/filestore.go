// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/skillbridge/skillbridge/lib/secret"
	"github.com/skillbridge/skillbridge/marketplace"
)

// FileStore keeps the session record as JSON in a single file with
// mode 0600.
type FileStore struct {
	path string
}

var _ ClosableStore = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at path. Nothing is
// read or created until first use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the record.
func (s *FileStore) Load(ctx context.Context) (*marketplace.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: reading %s: %w", s.path, err)
	}
	defer secret.Zero(data)
	return decodeRecord(data)
}

// Save writes the record atomically.
func (s *FileStore) Save(ctx context.Context, user *marketplace.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecord(user)
	if err != nil {
		return err
	}
	defer secret.Zero(data)
	return writeFileAtomic(s.path, data)
}

// Clear deletes the session file.
func (s *FileStore) Clear(ctx context.Context) error {
	return removeFile(s.path)
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
