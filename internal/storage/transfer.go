package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/pagemark/internal/exporter"
	"github.com/nikbrunner/pagemark/internal/importer"
	"github.com/nikbrunner/pagemark/internal/model"
	"go.uber.org/zap"
)

// Format is a file format for export and import.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatHTML
)

// FormatForPath picks a format from the file extension. Unknown extensions are CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatCSV
	}
}

// ExportTo writes the whole collection to path. The store itself is not modified.
func (s *Store) ExportTo(path string) error {
	records, err := s.LoadAll()
	if err != nil {
		return err
	}

	err = writeFileAtomic(path, func(w io.Writer) error {
		switch FormatForPath(path) {
		case FormatJSON:
			return WriteJSON(w, records)
		case FormatHTML:
			_, err := io.WriteString(w, exporter.ExportHTML(records))
			return err
		default:
			return WriteCSV(w, records)
		}
	})
	if err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	return nil
}

// ImportFrom reads records from path and merges them by URL: existing
// records are updated in place, new ones appended. Returns the number of
// records read from the source, not the number changed.
func (s *Store) ImportFrom(path string) (int, error) {
	imported, err := s.readImport(path)
	if err != nil {
		return 0, fmt.Errorf("import from %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return 0, err
	}

	added, updated := store.Merge(imported)
	if err := s.replaceAll(store.Records); err != nil {
		return 0, err
	}

	s.logger.Info("import finished",
		zap.String("path", path),
		zap.Int("read", len(imported)),
		zap.Int("added", added),
		zap.Int("updated", updated))

	return len(imported), nil
}

func (s *Store) readImport(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch FormatForPath(path) {
	case FormatJSON:
		return ReadJSON(f)
	case FormatHTML:
		return importer.ParseHTMLBookmarks(f)
	default:
		return ReadCSV(f, s.logger)
	}
}
