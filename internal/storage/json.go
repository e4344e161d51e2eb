package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/nikbrunner/pagemark/internal/model"
)

// JSONStorage implements Storage using a JSON file holding an array of records.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Init creates the directory and an empty array if no file exists.
func (s *JSONStorage) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.Save(nil)
}

// Load reads the records from the JSON file.
// Returns an empty slice if the file doesn't exist.
func (s *JSONStorage) Load() ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Record{}, nil
		}
		return nil, err
	}
	defer f.Close()

	return ReadJSON(f)
}

// Save writes the records to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(records []model.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(s.path, func(w io.Writer) error {
		return WriteJSON(w, records)
	})
}

// ReadJSON decodes an array of records. Records are normalized; those
// without a URL are dropped.
func ReadJSON(r io.Reader) ([]model.Record, error) {
	var raw []model.Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Record{}, nil
		}
		return nil, err
	}

	records := make([]model.Record, 0, len(raw))
	for _, rec := range raw {
		if rec.URL == "" {
			continue
		}
		records = append(records, rec.Normalize())
	}
	return records, nil
}

// WriteJSON encodes records as an indented array.
func WriteJSON(w io.Writer, records []model.Record) error {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Normalize())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
