// ABOUTME: Open selects and constructs a DocumentStore backend by name.
// ABOUTME: Backends live under a data directory: documents.db for sqlite, documents/ for files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSqlite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown document store backend")

// Open returns the named backend rooted at dataDir.
func Open(backend, dataDir string) (DocumentStore, error) {
	switch backend {
	case BackendSqlite, "":
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return OpenSqlite(filepath.Join(dataDir, "documents.db"), nil)
	case BackendFile:
		return NewFileStore(filepath.Join(dataDir, "documents"), nil)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
