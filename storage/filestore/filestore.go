/*
	Package filestore implements the reference filesystem Store.  Paths
	resolve relative to a volume root directory and reads are ordinary
	buffered file reads.
*/

package filestore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/seismic-io/govds/storage"
	"github.com/seismic-io/govds/vds"
)

func init() {
	storage.RegisterEngine(Engine{})
}

// Engine creates filesystem stores rooted at a directory.
type Engine struct{}

func (e Engine) Kind() storage.BackendKind {
	return storage.FileSystem
}

func (e Engine) NewStore(root string) (storage.Store, error) {
	return New(root)
}

type fileStore struct {
	root string
}

// New returns a Store rooted at the given directory.  The directory is
// created if missing so Create can populate a fresh volume.
func New(root string) (storage.Store, error) {
	if root == "" {
		return nil, vds.Configf("filestore requires a root directory")
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		vds.Infof("Volume root not already at path (%s). Creating ...\n", root)
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, &vds.StorageError{Op: "mkdir", Path: root, Err: err}
		}
	}
	return &fileStore{root: root}, nil
}

func (s *fileStore) fullPath(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *fileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &vds.CancelError{Err: err}
	}
	data, err := os.ReadFile(s.fullPath(path))
	if err != nil {
		return nil, &vds.StorageError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (s *fileStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &vds.CancelError{Err: err}
	}
	full := s.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return &vds.StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return &vds.StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *fileStore) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &vds.CancelError{Err: err}
	}
	_, err := os.Stat(s.fullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, &vds.StorageError{Op: "stat", Path: path, Err: err}
}

func (s *fileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return &vds.CancelError{Err: err}
	}
	if err := os.Remove(s.fullPath(path)); err != nil {
		return &vds.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

func (s *fileStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &vds.CancelError{Err: err}
	}
	dir := s.fullPath(prefix)
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &vds.StorageError{Op: "list", Path: prefix, Err: err}
	}
	return paths, nil
}

func (s *fileStore) Size(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &vds.CancelError{Err: err}
	}
	info, err := os.Stat(s.fullPath(path))
	if err != nil {
		return 0, &vds.StorageError{Op: "size", Path: path, Err: err}
	}
	return info.Size(), nil
}

func (s *fileStore) Kind() storage.BackendKind {
	return storage.FileSystem
}

func (s *fileStore) Close() error {
	return nil
}
