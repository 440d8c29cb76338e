// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/skillbridge/skillbridge/lib/sealed"
	"github.com/skillbridge/skillbridge/lib/secret"
	"github.com/skillbridge/skillbridge/marketplace"
)

// SealedStore keeps the session record encrypted with age. The record
// is readable only with the identity file.
type SealedStore struct {
	path    string
	keypair *sealed.Keypair
}

var _ ClosableStore = (*SealedStore)(nil)

// OpenSealedStore loads the age identity at identityPath, generating it
// if absent, and returns a store for the encrypted record at path.
func OpenSealedStore(path, identityPath string) (*SealedStore, error) {
	keypair, err := sealed.LoadOrCreateIdentity(identityPath)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &SealedStore{path: path, keypair: keypair}, nil
}

// Recipient returns the age public key records are sealed to.
func (s *SealedStore) Recipient() string {
	return s.keypair.PublicKey
}

// Load decrypts and decodes the record.
func (s *SealedStore) Load(ctx context.Context) (*marketplace.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ciphertext, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: reading %s: %w", s.path, err)
	}

	plaintext, err := sealed.Decrypt(ciphertext, s.keypair.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	defer plaintext.Close()
	return decodeRecord(plaintext.Bytes())
}

// Save encrypts the record and replaces the file atomically.
func (s *SealedStore) Save(ctx context.Context, user *marketplace.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := encodeRecord(user)
	if err != nil {
		return err
	}
	ciphertext, err := sealed.Encrypt(record, s.keypair.PublicKey)
	secret.Zero(record)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return writeFileAtomic(s.path, ciphertext)
}

// Clear deletes the encrypted record. The identity is kept.
func (s *SealedStore) Clear(ctx context.Context) error {
	return removeFile(s.path)
}

// Close releases the private key.
func (s *SealedStore) Close() error {
	return s.keypair.Close()
}
