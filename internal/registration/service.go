// Package registration enrolls new identities: it stores the face image,
// indexes the face with the recognition service, and persists the identity.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-attendance/internal/blob"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// ErrMissingFields: one or more required registration fields are absent.
var ErrMissingFields = errors.New("missing required fields")

// Input is a registration request. All fields are required.
type Input struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	PhoneNumber string
	Image       []byte
}

func (in *Input) validate() error {
	if in.FirstName == "" || in.LastName == "" || in.DateOfBirth == "" ||
		in.PhoneNumber == "" || len(in.Image) == 0 {
		return ErrMissingFields
	}
	return nil
}

// Service orchestrates blob upload, recognition enrollment, and identity
// persistence.
type Service struct {
	identities store.IdentityStore
	blobs      blob.Store
	gateway    recognition.Gateway
	metrics    metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a registration service.
func NewService(identities store.IdentityStore, blobs blob.Store, gateway recognition.Gateway, rec metrics.Recorder, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		identities: identities,
		blobs:      blobs,
		gateway:    gateway,
		metrics:    rec,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a new identity from the given biographical data and
// face image.
//
// A registration whose image contains no detectable face fails outright
// and persists nothing: there is nothing the recognition service could
// ever match, and the caller can simply resubmit a better photo. When a
// face is detected but indexing fails, the identity is persisted with
// status unindexed instead, so the registration is never silently lost;
// Reenroll can retry the enrollment later. A failure of detection itself
// proves nothing about the image and fails the request.
func (s *Service) Register(ctx context.Context, input Input) (*store.Identity, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	faceID := uuid.NewString()
	imageKey := blob.ImageKey(faceID)

	if err := s.blobs.Put(ctx, imageKey, input.Image, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload face image: %w", err)
	}

	identity := &store.Identity{
		FaceID:      faceID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		PhoneNumber: input.PhoneNumber,
		ImageKey:    imageKey,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	start := s.now()
	rekognitionFaceID, err := s.gateway.Enroll(ctx, input.Image, faceID)
	s.metrics.RecordRecognitionLatency("enroll", s.now().Sub(start))

	switch {
	case err == nil:
		identity.RekognitionFaceID = rekognitionFaceID
		identity.Status = store.StatusIndexed
	case errors.Is(err, recognition.ErrNoFaceDetected):
		// The uploaded blob stays behind; an orphaned image is an
		// accepted inconsistency, not something to roll back.
		return nil, err
	case errors.Is(err, recognition.ErrEnrollmentFailed):
		// Detection saw a face, only the indexing step failed. Keep the
		// registration as unindexed so Reenroll can finish it later.
		s.logger.Warn("enrollment failed, persisting unindexed identity",
			"face_id", faceID, "error", err)
		identity.Status = store.StatusUnindexed
	default:
		// Detection itself failed, so we know nothing about the image.
		// Fail the request and let the caller retry.
		return nil, fmt.Errorf("enroll face: %w", err)
	}

	if err := s.identities.Put(ctx, identity); err != nil {
		return nil, fmt.Errorf("persist identity: %w", err)
	}

	s.metrics.RecordRegistration(identity.Status)
	s.logger.Info("identity registered",
		"face_id", identity.FaceID,
		"status", identity.Status,
	)
	return identity, nil
}

// Get retrieves a registered identity by face id.
func (s *Service) Get(ctx context.Context, faceID string) (*store.Identity, error) {
	return s.identities.Get(ctx, faceID)
}

// List returns all registered identities.
func (s *Service) List(ctx context.Context) ([]store.Identity, error) {
	return s.identities.List(ctx)
}

// Unindexed returns identities whose enrollment never succeeded.
func (s *Service) Unindexed(ctx context.Context) ([]store.Identity, error) {
	return s.identities.ListUnindexed(ctx)
}

// Reenroll retries enrollment for one unindexed identity using its stored
// image. On success the identity is updated to indexed.
func (s *Service) Reenroll(ctx context.Context, identity *store.Identity) error {
	if identity.Indexed() {
		return nil
	}
	image, err := s.blobs.Get(ctx, identity.ImageKey)
	if err != nil {
		return fmt.Errorf("load stored image for %s: %w", identity.FaceID, err)
	}

	rekognitionFaceID, err := s.gateway.Enroll(ctx, image, identity.FaceID)
	if err != nil {
		return fmt.Errorf("re-enroll %s: %w", identity.FaceID, err)
	}

	identity.RekognitionFaceID = rekognitionFaceID
	identity.Status = store.StatusIndexed
	if err := s.identities.Put(ctx, identity); err != nil {
		return fmt.Errorf("persist re-enrolled identity %s: %w", identity.FaceID, err)
	}

	s.logger.Info("identity re-enrolled", "face_id", identity.FaceID)
	return nil
}

// Remediate re-enrolls every unindexed identity. It returns how many were
// fixed and how many still fail.
func (s *Service) Remediate(ctx context.Context) (fixed, failed int, err error) {
	unindexed, err := s.Unindexed(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unindexed identities: %w", err)
	}
	for i := range unindexed {
		if err := s.Reenroll(ctx, &unindexed[i]); err != nil {
			s.logger.Warn("remediation failed", "face_id", unindexed[i].FaceID, "error", err)
			failed++
			continue
		}
		fixed++
	}
	return fixed, failed, nil
}

// Delete removes one identity everywhere: the recognition collection, the
// identity table, and the image blob. Safe to repeat; missing pieces are
// skipped.
func (s *Service) Delete(ctx context.Context, faceID string) error {
	identity, err := s.identities.Get(ctx, faceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load identity %s: %w", faceID, err)
	}

	if identity.RekognitionFaceID != "" {
		if err := s.gateway.DeleteFaces(ctx, []string{identity.RekognitionFaceID}); err != nil {
			return fmt.Errorf("remove face from collection: %w", err)
		}
	}
	if err := s.identities.Delete(ctx, faceID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, identity.ImageKey); err != nil {
		return err
	}

	s.logger.Info("identity deleted", "face_id", faceID)
	return nil
}
