package storage

import (
	"context"
	"io"
)

// ImageRepository abstracts the object store holding compressed receipt
// images.
type ImageRepository interface {
	// Upload stores data under objectPath and returns the stored path.
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)

	// Download returns the object's bytes.
	Download(ctx context.Context, objectPath string) ([]byte, error)

	// Delete removes the object.
	Delete(ctx context.Context, objectPath string) error

	// List returns the object paths under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
