package docstore

import (
	"context"
	"errors"
	"time"
)

// Driver identifies a concrete document store implementation.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverSQLite Driver = "sqlite"
)

// ErrDocumentNotFound is returned by Get for a key with no stored document.
var ErrDocumentNotFound = errors.New("document not found")

// Info describes one stored document.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the read/write path to a document collection keyed by
// slash-separated names. Implementations must return List results in
// ascending key order.
type Store interface {
	// Put stores or overwrites the document at key.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get retrieves the document contents. Returns ErrDocumentNotFound
	// when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns the documents whose key has the given prefix.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver reports the configured backend.
	Driver() Driver
}
