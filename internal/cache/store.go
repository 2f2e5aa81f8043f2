// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// Key addresses one cached response body.
type Key struct {
	Author types.AuthorRecord
	Kind   Kind
	Name   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", DirName(k.Author), k.Kind, k.Name)
}

// Entry is a snapshot of a cache slot.
type Entry struct {
	Exists bool
	Empty  bool
}

// Fresh reports whether the entry holds a usable body.
func (e Entry) Fresh() bool {
	return e.Exists && !e.Empty
}

// ShouldFetch decides whether a live request is needed for an entry under
// the given mode.
func ShouldFetch(e Entry, mode types.Mode) bool {
	if mode == types.ForceRefresh {
		return true
	}
	return !e.Fresh()
}

// ErrMiss is returned by Get when the key has no stored body.
var ErrMiss = errors.New("cache miss")

// Store persists response bodies by key.
type Store interface {
	// Prepare makes the author's slots writable.
	Prepare(rec types.AuthorRecord) error
	Stat(key Key) (Entry, error)
	Get(key Key) ([]byte, error)
	// Put stores data, replacing any previous body. A failed Put leaves the
	// previous body untouched.
	Put(key Key, data []byte) error
	List(rec types.AuthorRecord, kind Kind) ([]string, error)
}

// FSStore keeps bodies as files under Root/AUTHORS.
type FSStore struct {
	Root string
}

// NewFSStore returns a filesystem store rooted at root.
func NewFSStore(root string) *FSStore {
	return &FSStore{Root: root}
}

// Path returns the file backing key.
func (s *FSStore) Path(key Key) string {
	return filepath.Join(Resolve(s.Root, key.Author).Dir(key.Kind), key.Name)
}

func (s *FSStore) Prepare(rec types.AuthorRecord) error {
	return EnsureDirs(Resolve(s.Root, rec))
}

func (s *FSStore) Stat(key Key) (Entry, error) {
	info, err := os.Stat(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, &types.FilesystemError{Op: "stat", Path: s.Path(key), Err: err}
	}
	return Entry{Exists: true, Empty: info.Size() == 0}, nil
}

func (s *FSStore) Get(key Key) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, &types.FilesystemError{Op: "read", Path: s.Path(key), Err: err}
	}
	return data, nil
}

// Put writes data to a temporary file in the target directory and renames
// it over the destination.
func (s *FSStore) Put(key Key, data []byte) error {
	dest := s.Path(key)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return &types.FilesystemError{Op: "create", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return &types.FilesystemError{Op: "write", Path: tmpPath, Err: writeErr}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return &types.FilesystemError{Op: "close", Path: tmpPath, Err: closeErr}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return &types.FilesystemError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}

// List returns the names of non-temporary files in the author's kind
// directory, sorted.
func (s *FSStore) List(rec types.AuthorRecord, kind Kind) ([]string, error) {
	dir := Resolve(s.Root, rec).Dir(kind)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.FilesystemError{Op: "readdir", Path: dir, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
	// PutErr, when set, is returned by every Put.
	PutErr error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (m *MemStore) Prepare(types.AuthorRecord) error { return nil }

func (m *MemStore) Stat(key Key) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key.String()]
	if !ok {
		return Entry{}, nil
	}
	return Entry{Exists: true, Empty: len(data) == 0}, nil
}

func (m *MemStore) Get(key Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key.String()]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), data...), nil
}

func (m *MemStore) Put(key Key, data []byte) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key.String()] = append([]byte(nil), data...)
	return nil
}

func (m *MemStore) List(rec types.AuthorRecord, kind Kind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := Key{Author: rec, Kind: kind}.String()
	var names []string
	for k := range m.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names = append(names, k[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}
