/*
	Package storage provides a unified interface to the byte stores a
	volume may live in.  Values are addressed by opaque path strings;
	serialization and brick framing happen above this level.

	Each backend registers itself via RegisterEngine so Open can route a
	volume locator by URL scheme.  Only the filesystem backend ships with
	this library; cloud schemes are recognized but callers must supply
	their own Store implementation for them.
*/

package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/seismic-io/govds/vds"
)

// BackendKind enumerates the classes of storage backend a locator may
// reference.
type BackendKind uint8

const (
	FileSystem BackendKind = iota
	S3
	Azure
	GCS
	SeismicDMS
	Other
)

func (k BackendKind) String() string {
	switch k {
	case FileSystem:
		return "filesystem"
	case S3:
		return "s3"
	case Azure:
		return "azure"
	case GCS:
		return "gcs"
	case SeismicDMS:
		return "seismic-dms"
	default:
		return "other"
	}
}

// Store is the capability set any storage backend implements.  All
// operations honor context cancellation and may fail with a
// vds.StorageError wrapping the backend failure.  Implementations must be
// safe for concurrent use; the read path issues many Reads at once.
type Store interface {
	// Read returns the full value at a path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores a value at a path, replacing any prior value.
	Write(ctx context.Context, path string, data []byte) error

	// Exists reports whether a path holds a value.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the value at a path.
	Delete(ctx context.Context, path string) error

	// List returns the paths under a prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Size returns the byte length of the value at a path.
	Size(ctx context.Context, path string) (int64, error)

	// Kind returns the backend class.
	Kind() BackendKind

	// Close releases backend resources.
	Close() error
}

// KindFromLocator parses the URL scheme of a volume locator.  A locator
// with no scheme is treated as a filesystem path.
func KindFromLocator(locator string) (BackendKind, error) {
	schemeEnd := strings.Index(locator, "://")
	if schemeEnd < 0 {
		return FileSystem, nil
	}
	switch locator[:schemeEnd] {
	case "file":
		return FileSystem, nil
	case "s3":
		return S3, nil
	case "azure", "azureSAS":
		return Azure, nil
	case "gs":
		return GCS, nil
	case "sd":
		return SeismicDMS, nil
	default:
		return Other, vds.Configf("unknown locator scheme %q", locator[:schemeEnd])
	}
}

// Engine creates Stores for one backend kind.
type Engine interface {
	Kind() BackendKind
	NewStore(root string) (Store, error)
}

var (
	enginesMu sync.Mutex
	engines   = map[BackendKind]Engine{}
)

// RegisterEngine makes a backend available to Open.  Called from backend
// package init.
func RegisterEngine(e Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if _, dup := engines[e.Kind()]; dup {
		vds.Criticalf("storage engine for %s registered twice\n", e.Kind())
	}
	engines[e.Kind()] = e
}

// Open routes a volume locator to a registered storage engine.  Cloud
// schemes are recognized but rejected: this library only ships the
// filesystem backend, and callers targeting cloud storage must construct
// their own Store and hand it to the volume layer directly.
func Open(locator string) (Store, error) {
	kind, err := KindFromLocator(locator)
	if err != nil {
		return nil, err
	}
	if kind != FileSystem {
		return nil, &vds.StorageError{
			Op:   "open",
			Path: locator,
			Err: fmt.Errorf("%s backends are not bundled; implement the storage.Store "+
				"interface with your %s SDK and open the volume with it", kind, kind),
		}
	}
	enginesMu.Lock()
	e, found := engines[kind]
	enginesMu.Unlock()
	if !found {
		return nil, vds.Configf("no storage engine registered for %s", kind)
	}
	root := strings.TrimPrefix(locator, "file://")
	return e.NewStore(root)
}
