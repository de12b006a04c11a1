// Package storage persists generated certificate PDFs and hands back the
// public URL they are served from.
package storage

import "context"

// Store is a write-once artifact store for certificate files.
type Store interface {
	// Put writes data under filename and returns the public URL.
	Put(ctx context.Context, filename string, data []byte) (string, error)
	// Delete removes the artifact. Deleting a missing artifact is not an
	// error.
	Delete(ctx context.Context, filename string) error
}
