// Package blob stores raw images in an object store keyed by path.
package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no object exists for the given key.
var ErrNotFound = errors.New("object not found")

// Store is a put/get/delete object store. Uploaded face images live under
// faces/<faceId>.jpg.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ImageKey returns the object key for a registered face image.
func ImageKey(faceID string) string {
	return fmt.Sprintf("faces/%s.jpg", faceID)
}
