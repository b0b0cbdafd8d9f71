// Package verification matches a live image against registered identities.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// Person is the biographical data returned with a successful match.
type Person struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
}

// Result is the outcome of a verification. "No match" is a successful
// result with Match false, not an error.
type Result struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
	FaceID     string  `json:"faceId,omitempty"`
	Person     *Person `json:"person,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Service searches the recognition collection and resolves matches to
// registered identities.
type Service struct {
	identities store.IdentityStore
	gateway    recognition.Gateway
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewService creates a verification service.
func NewService(identities store.IdentityStore, gateway recognition.Gateway, rec metrics.Recorder, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		identities: identities,
		gateway:    gateway,
		metrics:    rec,
		logger:     logger,
	}
}

// Verify searches for the face in the image. ErrNoFaceDetected from the
// gateway propagates (client error); everything else resolves to a Result.
func (s *Service) Verify(ctx context.Context, image []byte) (*Result, error) {
	start := time.Now()
	match, err := s.gateway.Search(ctx, image)
	s.metrics.RecordRecognitionLatency("search", time.Since(start))

	if err != nil {
		if errors.Is(err, recognition.ErrNoMatch) {
			s.metrics.RecordVerification("no_match")
			return &Result{Match: false, Message: "No matching face found"}, nil
		}
		if errors.Is(err, recognition.ErrNoFaceDetected) {
			s.metrics.RecordVerification("no_face")
			return nil, err
		}
		s.metrics.RecordVerification("error")
		return nil, fmt.Errorf("search face: %w", err)
	}

	identity, err := s.identities.GetByRekognitionFaceID(ctx, match.FaceID)
	if errors.Is(err, store.ErrNotFound) {
		// The collection knows the face but the identity row is gone;
		// report an unmatched result rather than failing.
		s.metrics.RecordVerification("no_match")
		s.logger.Warn("matched face has no identity record", "rekognition_face_id", match.FaceID)
		return &Result{
			Match:      false,
			Confidence: match.Similarity,
			Message:    "Face found but no person data",
		}, nil
	}
	if err != nil {
		s.metrics.RecordVerification("error")
		return nil, fmt.Errorf("resolve matched identity: %w", err)
	}

	s.metrics.RecordVerification("match")
	s.logger.Info("face verified",
		"face_id", identity.FaceID,
		"confidence", match.Similarity,
	)
	return &Result{
		Match:      true,
		Confidence: match.Similarity,
		FaceID:     identity.FaceID,
		Person: &Person{
			FirstName:   identity.FirstName,
			LastName:    identity.LastName,
			DateOfBirth: identity.DateOfBirth,
			PhoneNumber: identity.PhoneNumber,
		},
	}, nil
}
