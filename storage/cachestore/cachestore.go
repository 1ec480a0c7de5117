/*
	Package cachestore wraps any Store with a read-through byte cache.
	Caching is a decorator at the storage layer: the read orchestrator
	never knows whether a brick came from cache or backend.

	Eviction is freecache's approximate LRU within a fixed byte budget.
	freecache drops entries larger than 1/1024 of the budget, so size the
	cache to at least 1024x the compressed brick size that should stay
	resident; oversized bricks simply stay uncached.
*/

package cachestore

import (
	"context"

	"github.com/coocood/freecache"

	"github.com/seismic-io/govds/storage"
	"github.com/seismic-io/govds/vds"
)

type cacheStore struct {
	inner storage.Store
	cache *freecache.Cache
}

// MinCacheBytes is freecache's smallest usable budget.
const MinCacheBytes = 512 * 1024

// Wrap decorates a Store with a read-through cache of the given byte
// budget.  Budgets below MinCacheBytes are raised to it.
func Wrap(inner storage.Store, cacheBytes int) storage.Store {
	if cacheBytes < MinCacheBytes {
		cacheBytes = MinCacheBytes
	}
	return &cacheStore{
		inner: inner,
		cache: freecache.NewCache(cacheBytes),
	}
}

func (s *cacheStore) Read(ctx context.Context, path string) ([]byte, error) {
	if data, err := s.cache.Get([]byte(path)); err == nil {
		return data, nil
	}
	data, err := s.inner.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	// Set failures just mean the entry was too large for the budget.
	if err := s.cache.Set([]byte(path), data, 0); err != nil {
		vds.Debugf("cache bypass for %q: %v\n", path, err)
	}
	return data, nil
}

func (s *cacheStore) Write(ctx context.Context, path string, data []byte) error {
	s.cache.Del([]byte(path))
	return s.inner.Write(ctx, path, data)
}

func (s *cacheStore) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := s.cache.Get([]byte(path)); err == nil {
		return true, nil
	}
	return s.inner.Exists(ctx, path)
}

func (s *cacheStore) Delete(ctx context.Context, path string) error {
	s.cache.Del([]byte(path))
	return s.inner.Delete(ctx, path)
}

func (s *cacheStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *cacheStore) Size(ctx context.Context, path string) (int64, error) {
	if data, err := s.cache.Get([]byte(path)); err == nil {
		return int64(len(data)), nil
	}
	return s.inner.Size(ctx, path)
}

func (s *cacheStore) Kind() storage.BackendKind {
	return s.inner.Kind()
}

func (s *cacheStore) Close() error {
	s.cache.Clear()
	return s.inner.Close()
}
