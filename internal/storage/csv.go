package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/pagemark/internal/model"
	"go.uber.org/zap"
)

var ErrMissingURLColumn = errors.New("csv header has no URL column")

// CSVStorage implements Storage using a single CSV file with a fixed header.
type CSVStorage struct {
	path   string
	logger *zap.Logger
}

// NewCSVStorage creates a new CSVStorage with the given file path.
func NewCSVStorage(path string, logger *zap.Logger) *CSVStorage {
	return &CSVStorage{path: path, logger: logger.Named("csv")}
}

// Path returns the storage file path.
func (s *CSVStorage) Path() string {
	return s.path
}

// Init creates the directory and a header-only file if none exists.
func (s *CSVStorage) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.Save(nil)
}

// Load reads all records from the CSV file.
// A missing file is recreated with just the header and loads as empty.
func (s *CSVStorage) Load() ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := s.Init(); err != nil {
				return nil, fmt.Errorf("recreate %s: %w", s.path, err)
			}
			return []model.Record{}, nil
		}
		return nil, err
	}
	defer f.Close()

	records, err := ReadCSV(f, s.logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return records, nil
}

// Save rewrites the whole file: header first, then one row per record.
func (s *CSVStorage) Save(records []model.Record) error {
	return writeFileAtomic(s.path, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// ReadCSV parses records from r. Columns are matched by header name, so
// reordered or partial tables still load. Rows without a URL are skipped
// with a warning; any parse error aborts the read.
func ReadCSV(r io.Reader, logger *zap.Logger) ([]model.Record, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Record{}, nil
		}
		return nil, fmt.Errorf("parse header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["url"]; !ok {
		return nil, ErrMissingURLColumn
	}

	records := []model.Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}

		get := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		rec := model.Record{
			URL:         strings.TrimSpace(get("url")),
			Title:       get("title"),
			Description: get("description"),
			Tags:        get("tags"),
			Date:        get("date"),
			Favorite:    get("favorite"),
			Screenshot:  get("screenshot"),
		}
		if rec.URL == "" {
			line, _ := reader.FieldPos(0)
			logger.Warn("skipping row without URL", zap.Int("line", line))
			continue
		}
		records = append(records, rec.Normalize())
	}

	return records, nil
}

// WriteCSV writes the header and records to w.
func WriteCSV(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(r.Normalize().Fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
