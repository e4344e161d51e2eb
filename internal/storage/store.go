package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/search"
	"go.uber.org/zap"
)

var (
	ErrMissingURL     = errors.New("record has no URL")
	ErrRecordNotFound = errors.New("record not found")
)

// StoreOptions holds optional Store settings.
type StoreOptions struct {
	// OnChange is called after every successful write.
	OnChange func()
}

// Store is the record store: a queryable collection persisted through a
// Storage backend. Every mutation reloads the collection and rewrites it
// whole through ReplaceAll.
type Store struct {
	backend  Storage
	logger   *zap.Logger
	onChange func()

	mu sync.Mutex // serializes read-modify-write cycles
}

// NewStore creates a Store and prepares the backing file.
// Failure to create the directory or file is fatal for the store.
func NewStore(backend Storage, logger *zap.Logger, opts StoreOptions) (*Store, error) {
	if init, ok := backend.(Initializer); ok {
		if err := init.Init(); err != nil {
			return nil, fmt.Errorf("init store %s: %w", backend.Path(), err)
		}
	}

	return &Store{
		backend:  backend,
		logger:   logger.Named("store"),
		onChange: opts.OnChange,
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.backend.Path()
}

// Close releases the backend if it holds resources, such as a database handle.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// LoadAll returns every record with all fields populated.
func (s *Store) LoadAll() ([]model.Record, error) {
	records, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	for i := range records {
		records[i] = records[i].Normalize()
	}
	return records, nil
}

// Get returns the record stored under url.
func (s *Store) Get(url string) (model.Record, error) {
	store, err := s.loadStore()
	if err != nil {
		return model.Record{}, err
	}
	r := store.Get(url)
	if r == nil {
		return model.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, url)
	}
	return *r, nil
}

// Upsert merges r onto the stored record with the same URL (non-empty
// fields of r win), or appends it. Returns the stored result.
func (s *Store) Upsert(r model.Record) (model.Record, error) {
	if r.URL == "" {
		return model.Record{}, ErrMissingURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return model.Record{}, err
	}

	stored := store.Upsert(r)
	if err := s.replaceAll(store.Records); err != nil {
		return model.Record{}, err
	}
	return stored.Normalize(), nil
}

// ReplaceAll normalizes records and rewrites the whole collection.
// It is the single write primitive of the store.
func (s *Store) ReplaceAll(records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceAll(records)
}

// Search returns records whose URL, title, description or tags contain query.
func (s *Store) Search(query string) ([]model.Record, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return search.Records(records, query), nil
}

// FilterByTags returns records carrying at least one of tags.
func (s *Store) FilterByTags(tags []string) ([]model.Record, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return search.ByTags(records, tags), nil
}

// Tags returns the unique tags across the collection.
func (s *Store) Tags() ([]string, error) {
	store, err := s.loadStore()
	if err != nil {
		return nil, err
	}
	return store.AllTags(), nil
}

// Delete removes the record and its screenshot file. A screenshot that is
// already gone is not an error.
func (s *Store) Delete(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return err
	}

	removed, ok := store.Remove(url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, url)
	}
	if err := s.replaceAll(store.Records); err != nil {
		return err
	}

	s.removeScreenshot(removed.Screenshot)
	return nil
}

// ToggleFavorite flips the favorite flag and returns the updated record.
func (s *Store) ToggleFavorite(url string) (model.Record, error) {
	return s.update(url, func(r *model.Record) {
		if r.IsFavorite() {
			r.Favorite = model.FavoriteFalse
		} else {
			r.Favorite = model.FavoriteTrue
		}
	})
}

// UpdateScreenshot points the record at a new screenshot file and removes
// the one it replaces.
func (s *Store) UpdateScreenshot(url, path string) (model.Record, error) {
	var previous string
	updated, err := s.update(url, func(r *model.Record) {
		previous = r.Screenshot
		r.Screenshot = path
	})
	if err != nil {
		return model.Record{}, err
	}
	if previous != "" && previous != path {
		s.removeScreenshot(previous)
	}
	return updated, nil
}

// update applies fn to the record with url, preserving every other field.
func (s *Store) update(url string, fn func(r *model.Record)) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return model.Record{}, err
	}

	r := store.Get(url)
	if r == nil {
		return model.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, url)
	}
	fn(r)
	updated := r.Normalize()

	if err := s.replaceAll(store.Records); err != nil {
		return model.Record{}, err
	}
	return updated, nil
}

func (s *Store) loadStore() (*model.Store, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return &model.Store{Records: records}, nil
}

// replaceAll must be called with mu held.
func (s *Store) replaceAll(records []model.Record) error {
	out := make([]model.Record, 0, len(records))
	for i, r := range records {
		if r.URL == "" {
			return fmt.Errorf("%w: record %d", ErrMissingURL, i)
		}
		out = append(out, r.Normalize())
	}

	if err := s.backend.Save(out); err != nil {
		return fmt.Errorf("save records: %w", err)
	}

	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

func (s *Store) removeScreenshot(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove screenshot", zap.String("path", path), zap.Error(err))
	}
}
