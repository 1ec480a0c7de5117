package cachestore

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/seismic-io/govds/storage/memstore"
)

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := memstore.New()
	if err := backing.Write(ctx, "brick", []byte("payload")); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	var fetches int64
	backing.FailReads = func(string) error {
		atomic.AddInt64(&fetches, 1)
		return nil
	}

	store := Wrap(backing, MinCacheBytes)
	defer store.Close()

	first, err := store.Read(ctx, "brick")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := store.Read(ctx, "brick")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("cached read differs from backend read")
	}
	if fetches != 1 {
		t.Errorf("expected 1 backend fetch, counted %d", fetches)
	}

	// A cache hit serves the original bytes even if the backend mutates.
	if err := backing.Corrupt("brick", 0); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	third, err := store.Read(ctx, "brick")
	if err != nil {
		t.Fatalf("third read: %v", err)
	}
	if !bytes.Equal(third, []byte("payload")) {
		t.Errorf("cache hit returned corrupted bytes: %q", third)
	}
}

func TestWriteAndDeleteInvalidate(t *testing.T) {
	ctx := context.Background()
	backing := memstore.New()
	store := Wrap(backing, 0) // raised to MinCacheBytes
	defer store.Close()

	if err := store.Write(ctx, "brick", []byte("v1")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Read(ctx, "brick"); err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := store.Write(ctx, "brick", []byte("v2")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	got, err := store.Read(ctx, "brick")
	if err != nil {
		t.Fatalf("read after rewrite: %v", err)
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("stale cache entry survived a write: %q", got)
	}

	if err := store.Delete(ctx, "brick"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if found, _ := store.Exists(ctx, "brick"); found {
		t.Errorf("deleted path still reported as existing")
	}
}
