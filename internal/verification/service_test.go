package verification

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/mock"
)

func registeredIdentity() *store.Identity {
	return &store.Identity{
		FaceID:            "face-1",
		RekognitionFaceID: "rek-1",
		FirstName:         "Jana",
		LastName:          "Svobodova",
		DateOfBirth:       "1991-04-02",
		PhoneNumber:       "+420123456789",
		Status:            store.StatusIndexed,
	}
}

func TestVerify_Match(t *testing.T) {
	identities := mock.NewIdentityStore()
	if err := identities.Put(context.Background(), registeredIdentity()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	gateway := recognition.NewMockGateway()
	gateway.SearchMatch = &recognition.Match{FaceID: "rek-1", Similarity: 96.4}

	svc := NewService(identities, gateway, nil, nil)
	result, err := svc.Verify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if !result.Match {
		t.Fatal("expected a match")
	}
	if result.FaceID != "face-1" || result.Confidence != 96.4 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Person == nil || result.Person.FirstName != "Jana" {
		t.Errorf("expected person data, got %+v", result.Person)
	}
}

func TestVerify_NoMatchIsNotAnError(t *testing.T) {
	svc := NewService(mock.NewIdentityStore(), recognition.NewMockGateway(), nil, nil)

	result, err := svc.Verify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("no match must not be an error, got %v", err)
	}
	if result.Match {
		t.Error("expected no match")
	}
	if result.Person != nil {
		t.Error("expected no person data")
	}
}

func TestVerify_MatchWithoutIdentityRecord(t *testing.T) {
	gateway := recognition.NewMockGateway()
	gateway.SearchMatch = &recognition.Match{FaceID: "rek-ghost", Similarity: 91.0}
	svc := NewService(mock.NewIdentityStore(), gateway, nil, nil)

	result, err := svc.Verify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if result.Match {
		t.Error("a match without identity data must not report match true")
	}
	if result.Confidence != 91.0 {
		t.Errorf("expected confidence to be reported, got %f", result.Confidence)
	}
}

func TestVerify_NoFaceDetectedPropagates(t *testing.T) {
	gateway := recognition.NewMockGateway()
	gateway.SearchError = recognition.ErrNoFaceDetected
	svc := NewService(mock.NewIdentityStore(), gateway, nil, nil)

	_, err := svc.Verify(context.Background(), []byte("not a face"))
	if !errors.Is(err, recognition.ErrNoFaceDetected) {
		t.Errorf("expected ErrNoFaceDetected, got %v", err)
	}
}

func TestVerify_StoreFaultSurfaces(t *testing.T) {
	identities := mock.NewIdentityStore()
	identities.GetError = errors.New("connection reset")
	gateway := recognition.NewMockGateway()
	gateway.SearchMatch = &recognition.Match{FaceID: "rek-1", Similarity: 90}
	svc := NewService(identities, gateway, nil, nil)

	_, err := svc.Verify(context.Background(), []byte("jpeg"))
	if err == nil {
		t.Fatal("expected store fault to surface")
	}
}
