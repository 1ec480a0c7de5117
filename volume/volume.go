/*
	Package volume is the public read API: it opens a volume from a
	locator, decomposes bounding-box requests into the covering brick
	set, fetches bricks concurrently through the storage abstraction,
	decodes and verifies each one, and stitches the results into a
	contiguous output buffer.
*/

package volume

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"

	"github.com/seismic-io/govds/metadata"
	"github.com/seismic-io/govds/storage"
	"github.com/seismic-io/govds/storage/cachestore"
	"github.com/seismic-io/govds/vds"

	// Register the bundled filesystem backend for file:// locators.
	_ "github.com/seismic-io/govds/storage/filestore"
)

// Volume is an open, read-only volumetric dataset.  The metadata is
// immutable after Open, so a Volume may be shared across goroutines;
// each read call owns its output buffer exclusively.
type Volume struct {
	meta  *metadata.Metadata
	store storage.Store
	cfg   Config
}

// Open opens an existing volume from a locator with default settings.
// Supported locators are file:// URLs or plain directory paths; cloud
// schemes are rejected with a directive to supply a custom Store.
func Open(ctx context.Context, locator string) (*Volume, error) {
	return OpenWithConfig(ctx, locator, DefaultConfig())
}

// OpenWithConfig is Open with caller-supplied settings.
func OpenWithConfig(ctx context.Context, locator string, cfg Config) (*Volume, error) {
	store, err := storage.Open(locator)
	if err != nil {
		return nil, err
	}
	v, err := OpenStore(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return v, nil
}

// OpenStore opens a volume through a caller-supplied Store, the extension
// point for cloud backends.
func OpenStore(ctx context.Context, store storage.Store, cfg Config) (*Volume, error) {
	if cfg.ConcurrencyLimit < 0 {
		return nil, vds.Configf("concurrency limit must be >= 0, got %d", cfg.ConcurrencyLimit)
	}
	cfg.Log.SetLogger()

	data, err := store.Read(ctx, vds.MetadataPath)
	if err != nil {
		return nil, wrapCancel(ctx, err)
	}
	meta, err := metadata.Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.CacheBytes > 0 {
		store = cachestore.Wrap(store, cfg.CacheBytes)
	}
	vds.Infof("Opened %s volume: %s metadata, %d brick descriptors\n",
		store.Kind(), humanize.IBytes(uint64(len(data))), meta.NumBricks())
	vds.Debugf("%s\n", meta.Layout.Summary())
	return &Volume{meta: meta, store: store, cfg: cfg}, nil
}

// Create initializes a new volume at a locator by persisting its metadata
// document.  Persisting brick data is the writer pipeline's job; the
// returned Volume reads whatever bricks the metadata describes.
func Create(ctx context.Context, locator string, meta *metadata.Metadata) (*Volume, error) {
	if meta == nil || meta.Layout == nil {
		return nil, vds.Configf("create requires metadata with a layout")
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	store, err := storage.Open(locator)
	if err != nil {
		return nil, err
	}
	doc, err := meta.Marshal()
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := store.Write(ctx, vds.MetadataPath, doc); err != nil {
		store.Close()
		return nil, wrapCancel(ctx, err)
	}
	return &Volume{meta: meta, store: store, cfg: DefaultConfig()}, nil
}

// Metadata returns the volume's parsed metadata.  Read-only.
func (v *Volume) Metadata() *metadata.Metadata {
	return v.meta
}

// Layout returns the volume's brick layout.  Read-only.
func (v *Volume) Layout() *vds.Layout {
	return v.meta.Layout
}

// Close releases the underlying store.
func (v *Volume) Close() error {
	return v.store.Close()
}

// wrapCancel converts context-cancellation failures into CancelError so an
// abandoned call surfaces as a cancellation, not a backend failure.
func wrapCancel(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var cancel *vds.CancelError
	if errors.As(err, &cancel) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return &vds.CancelError{Err: err}
	}
	return err
}
