package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/pagemark/internal/model"
)

// SQLiteStorage implements Storage using a SQLite database.
// It keeps the same seven columns as the CSV file plus the row position.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS records (
			url TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			favorite TEXT NOT NULL DEFAULT 'false',
			screenshot TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_records_favorite ON records(favorite) WHERE favorite = 'true';

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads all records in stored order.
func (s *SQLiteStorage) Load() ([]model.Record, error) {
	rows, err := s.db.Query(`
		SELECT url, title, description, tags, date, favorite, screenshot
		FROM records
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(
			&r.URL, &r.Title, &r.Description, &r.Tags,
			&r.Date, &r.Favorite, &r.Screenshot,
		); err != nil {
			return nil, err
		}
		records = append(records, r.Normalize())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Save replaces the table contents.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(records []model.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO records (url, title, description, tags, date, favorite, screenshot, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		r = r.Normalize()
		if _, err := stmt.Exec(
			r.URL, r.Title, r.Description, r.Tags,
			r.Date, r.Favorite, r.Screenshot, i,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
