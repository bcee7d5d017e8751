package ports

import "context"

// ObjectStore persists blobs under a key and returns a locator the blob can be
// fetched from. Storing under an existing key overwrites it.
type ObjectStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
