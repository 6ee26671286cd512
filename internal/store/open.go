package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// DefaultSQLiteFile is the database used when no path is given.
	DefaultSQLiteFile = "fintrack.db"
)

// Open returns a Store for the named backend. For BackendFile, path is the
// data directory; for BackendSQLite it is the database file. Relative paths
// are resolved against root.
func Open(root, backend, path string) (*Store, error) {
	if backend == BackendSQLite && path == "" {
		path = DefaultSQLiteFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	switch backend {
	case BackendFile, "":
		kv, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return New(kv), nil
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
		kv, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return New(kv), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
