package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no item exists for the given key.
var ErrNotFound = errors.New("not found")

// IdentityStore persists registered identities keyed by face id.
// Put overwrites; there are no partial updates beyond full overwrite.
type IdentityStore interface {
	// Put inserts or overwrites an identity by its FaceID.
	Put(ctx context.Context, identity *Identity) error
	// Get retrieves an identity by face id, returns ErrNotFound if absent.
	Get(ctx context.Context, faceID string) (*Identity, error)
	// GetByRekognitionFaceID finds the identity enrolled under the given
	// recognition face id, returns ErrNotFound if absent.
	GetByRekognitionFaceID(ctx context.Context, rekognitionFaceID string) (*Identity, error)
	// List returns all identities.
	List(ctx context.Context) ([]Identity, error)
	// ListUnindexed returns identities whose enrollment never succeeded.
	ListUnindexed(ctx context.Context) ([]Identity, error)
	// Delete removes an identity by face id. Deleting a missing identity
	// is not an error.
	Delete(ctx context.Context, faceID string) error
}

// AttendanceLog is the append-only attendance event log. Records are
// written once and never mutated; all aggregate state is derived by
// reading the log back.
type AttendanceLog interface {
	// Put appends one record. Each put is atomic; no ordering is
	// guaranteed across concurrent writers.
	Put(ctx context.Context, record *AttendanceRecord) error
	// QueryByDate returns all records for one calendar date (UTC),
	// newest first.
	QueryByDate(ctx context.Context, date string, limit int) ([]AttendanceRecord, error)
	// QueryByFace returns all records for one face id, newest first.
	QueryByFace(ctx context.Context, faceID string, limit int) ([]AttendanceRecord, error)
	// Scan returns up to limit records from the whole log, newest first.
	Scan(ctx context.Context, limit int) ([]AttendanceRecord, error)
}
