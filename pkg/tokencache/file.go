package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File stores token entries as JSON files, one per key, so wardenctl runs can
// share a session between invocations. Files are written 0600 under a 0700
// directory; losing one just forces a fresh login.
type File struct {
	dir string
}

// fileEntry is the on-disk form. The expiry is written out because, unlike
// Redis, the filesystem won't expire anything for us.
type fileEntry struct {
	Entry
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFile creates dir if needed and returns a store rooted there.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create token dir %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

func (f *File) Get(_ context.Context, key string) (*Entry, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var fe fileEntry
	if err := json.Unmarshal(data, &fe); err != nil {
		// Entries we can no longer read are dropped; the next login rewrites them.
		_ = os.Remove(f.path(key))
		return nil, nil
	}
	if time.Now().After(fe.ExpiresAt) {
		_ = os.Remove(f.path(key))
		return nil, nil
	}

	entry := fe.Entry
	return &entry, nil
}

func (f *File) Put(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	fe := fileEntry{Entry: entry, ExpiresAt: time.Now().Add(ttl)}
	data, err := json.Marshal(fe)
	if err != nil {
		return fmt.Errorf("marshal token entry: %w", err)
	}
	if err := os.WriteFile(f.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// sanitizeKey maps a cache key like "warden:token:johndoe" to a safe
// filename component.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
