// Package tokenstore provides the TokenStore implementations: a file-backed
// store for normal clients, an in-memory store for tests and ephemeral
// sessions, and a Redis-backed store for server-side embedders.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/tasklio/tasklio-go/internal/core/ports"
)

// tokenKey is the single key under which the session token is persisted.
const tokenKey = "jwt_token"

const lockRetryInterval = 50 * time.Millisecond

var _ ports.TokenStore = (*FileStore)(nil)

// FileStore persists the session token as a small JSON document on disk,
// guarded by an advisory file lock so concurrent processes sharing the same
// config directory do not tear each other's writes.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore writing to path. The parent directory is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the persisted token, or "" when no session is stored.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: read %s: %w", s.path, err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("tokenstore: parse %s: %w", s.path, err)
	}
	return doc[tokenKey], nil
}

// Save persists the token, replacing any previous one. The write goes
// through a temp file and rename so readers never observe a partial file.
func (s *FileStore) Save(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("tokenstore: mkdir: %w", err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return fmt.Errorf("tokenstore: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("tokenstore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("tokenstore: rename: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (s *FileStore) Clear(ctx context.Context) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) lock(ctx context.Context) (func(), error) {
	fl := flock.New(s.path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("tokenstore: lock %s: not acquired", fl.Path())
	}
	return func() { _ = fl.Unlock() }, nil
}
