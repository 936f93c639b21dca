package docstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a Store backed by a single local database file, used as an
// offline catalog of saved feature documents in the field.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the catalog at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "./dinamap.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing catalog schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Put stores or overwrites the document at key.
func (s *SQLite) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, content, content_type, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   content = excluded.content,
		   content_type = excluded.content_type,
		   updated_at = excluded.updated_at`,
		key, data, contentType, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing document %s: %w", key, err)
	}
	return nil
}

// Get retrieves the document contents at key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM documents WHERE key = ?", key,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", key, err)
	}
	return content, nil
}

// List returns the documents under prefix in ascending key order.
func (s *SQLite) List(ctx context.Context, prefix string) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, length(content), content_type, updated_at
		 FROM documents
		 WHERE key LIKE ? || '%'
		 ORDER BY key ASC`, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var updated string
		if err := rows.Scan(&info.Key, &info.Size, &info.ContentType, &updated); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			info.LastModified = t
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return infos, nil
}

// Driver reports the sqlite driver.
func (s *SQLite) Driver() Driver { return DriverSQLite }
