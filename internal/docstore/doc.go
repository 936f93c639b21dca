// Package docstore provides the document store collaborators: listing and
// fetching layer configuration documents and saved feature documents, and
// writing new feature documents. Four drivers share one interface: memory
// (tests), fs (local directory), sqlite (single-file catalog for offline
// field work), and s3 (the shared bucket).
package docstore
