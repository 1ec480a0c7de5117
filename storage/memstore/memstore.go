/*
	Package memstore implements an in-memory Store.  It backs tests and
	lets latency or failures be injected to exercise the concurrent read
	path without a real backend.
*/

package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/seismic-io/govds/storage"
	"github.com/seismic-io/govds/vds"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Latency, if set, is called per operation and the returned duration
	// slept before the operation runs.  Sleeps are cancellable.
	Latency func() time.Duration

	// FailReads, if set, is consulted per Read; a non-nil return aborts
	// the read with that error.
	FailReads func(path string) error
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) wait(ctx context.Context) error {
	if s.Latency == nil {
		return ctx.Err()
	}
	select {
	case <-time.After(s.Latency()):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := s.wait(ctx); err != nil {
		return nil, &vds.CancelError{Err: err}
	}
	if s.FailReads != nil {
		if err := s.FailReads(path); err != nil {
			return nil, &vds.StorageError{Op: "read", Path: path, Err: err}
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, found := s.data[path]
	if !found {
		return nil, &vds.StorageError{Op: "read", Path: path, Err: fmt.Errorf("not found")}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := s.wait(ctx); err != nil {
		return &vds.CancelError{Err: err}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.mu.Lock()
	s.data[path] = stored
	s.mu.Unlock()
	return nil
}

func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, &vds.CancelError{Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := s.data[path]
	return found, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.wait(ctx); err != nil {
		return &vds.CancelError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.data[path]; !found {
		return &vds.StorageError{Op: "delete", Path: path, Err: fmt.Errorf("not found")}
	}
	delete(s.data, path)
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, &vds.CancelError{Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var paths []string
	for path := range s.data {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) Size(ctx context.Context, path string) (int64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, &vds.CancelError{Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, found := s.data[path]
	if !found {
		return 0, &vds.StorageError{Op: "size", Path: path, Err: fmt.Errorf("not found")}
	}
	return int64(len(data)), nil
}

func (s *Store) Kind() storage.BackendKind {
	return storage.Other
}

func (s *Store) Close() error {
	return nil
}

// Corrupt flips one byte of a stored value in place, for integrity tests.
func (s *Store) Corrupt(path string, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, found := s.data[path]
	if !found {
		return fmt.Errorf("no value at %q", path)
	}
	if offset < 0 || offset >= len(data) {
		return fmt.Errorf("offset %d outside value of %d bytes", offset, len(data))
	}
	data[offset] ^= 0xFF
	return nil
}
