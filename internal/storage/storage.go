package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nikbrunner/pagemark/internal/model"
	"go.uber.org/zap"
)

// Backend names accepted in Config.Backend.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage defines the interface for persisting records.
// Save always rewrites the whole collection.
type Storage interface {
	Load() ([]model.Record, error)
	Save(records []model.Record) error
	Path() string
}

// Initializer is implemented by backends that need to create their
// backing file before first use.
type Initializer interface {
	Init() error
}

// OpenStorage opens the backend selected in cfg.
func OpenStorage(cfg *Config, logger *zap.Logger) (Storage, error) {
	switch cfg.Backend {
	case "", BackendCSV:
		return NewCSVStorage(cfg.DataFile, logger), nil
	case BackendSQLite:
		return NewSQLiteStorage(cfg.DataFile)
	case BackendJSON:
		return NewJSONStorage(cfg.DataFile), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so readers never see a half-written file.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if err := write(tmp); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
