// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skillbridge/skillbridge/lib/secret"
)

// LoadOrCreateIdentity reads the identity at path, generating and
// writing a new one (mode 0600, parent 0700) if the file does not
// exist. The caller must Close the returned Keypair.
func LoadOrCreateIdentity(path string) (*Keypair, error) {
	privateKey, err := secret.ReadFromPath(path)
	if err == nil {
		return keypairFromPrivateKey(privateKey)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("sealed: reading identity %s: %w", path, err)
	}

	keypair, err := GenerateKeypair()
	if err != nil {
		return nil, err
	}
	if err := writeIdentity(path, keypair.PrivateKey.Bytes()); err != nil {
		keypair.Close()
		return nil, err
	}
	return keypair, nil
}

func writeIdentity(path string, privateKey []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("sealed: creating identity directory: %w", err)
	}
	// An existing identity is never overwritten.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("sealed: creating identity %s: %w", path, err)
	}
	if _, err := file.Write(privateKey); err != nil {
		file.Close()
		return fmt.Errorf("sealed: writing identity %s: %w", path, err)
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		file.Close()
		return fmt.Errorf("sealed: writing identity %s: %w", path, err)
	}
	return file.Close()
}
