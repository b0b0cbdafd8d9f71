// Package recognition wraps the external face-matching service. The
// matching itself is a black box; this package only shapes its inputs,
// outputs, and failure modes.
package recognition

import (
	"context"
	"errors"
)

// Failure modes reported by the recognition service.
var (
	// ErrNoFaceDetected: the detector found zero faces in the image.
	ErrNoFaceDetected = errors.New("no face detected in image")
	// ErrEnrollmentFailed: detection succeeded but indexing failed or
	// returned no face.
	ErrEnrollmentFailed = errors.New("face enrollment failed")
	// ErrNoMatch: no enrolled face cleared the similarity threshold.
	ErrNoMatch = errors.New("no matching face found")
)

// Match is a successful search result. Similarity is a percentage.
type Match struct {
	FaceID     string
	Similarity float64
}

// Face is one enrolled face in the collection.
type Face struct {
	FaceID          string
	ExternalImageID string
}

// Gateway is the interface to the external face-matching capability.
type Gateway interface {
	// Enroll indexes the face in the image under externalID and returns
	// the service's face id. Fails with ErrNoFaceDetected or
	// ErrEnrollmentFailed.
	Enroll(ctx context.Context, image []byte, externalID string) (string, error)
	// Search finds the enrolled face most similar to the one in the
	// image. Fails with ErrNoFaceDetected or ErrNoMatch.
	Search(ctx context.Context, image []byte) (*Match, error)
	// EnsureCollection creates the face collection if it does not exist.
	EnsureCollection(ctx context.Context) error
	// ListFaces returns all enrolled faces.
	ListFaces(ctx context.Context) ([]Face, error)
	// DeleteFaces removes the given face ids from the collection.
	// Unknown ids are ignored by the service.
	DeleteFaces(ctx context.Context, faceIDs []string) error
	// Reset deletes and recreates the collection, removing every
	// enrolled face.
	Reset(ctx context.Context) error
}
