package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/store"
)

func TestVerifyMatch(t *testing.T) {
	fixture := newTestFixture()

	err := fixture.identities.Put(context.Background(), &store.Identity{
		FaceID:            "face-1",
		RekognitionFaceID: "rek-1",
		FirstName:         "Jane",
		LastName:          "Doe",
		DateOfBirth:       "1990-05-14",
		PhoneNumber:       "+420123456789",
		Status:            store.StatusIndexed,
	})
	if err != nil {
		t.Fatalf("failed to seed identity: %v", err)
	}
	fixture.gateway.SearchMatch = &recognition.Match{FaceID: "rek-1", Similarity: 97.5}

	req := jsonRequest(t, http.MethodPost, "/verify", map[string]string{"image": testImage()})
	recorder := httptest.NewRecorder()
	fixture.verify.Verify(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	if resp["success"] != true {
		t.Error("expected success true")
	}
	if resp["match"] != true {
		t.Error("expected match true")
	}
	if resp["faceId"] != "face-1" {
		t.Errorf("expected faceId 'face-1', got '%v'", resp["faceId"])
	}
	person, ok := resp["person"].(map[string]any)
	if !ok {
		t.Fatal("expected a person object in the response")
	}
	if person["firstName"] != "Jane" {
		t.Errorf("expected first name 'Jane', got '%v'", person["firstName"])
	}
}

func TestVerifyNoMatch(t *testing.T) {
	fixture := newTestFixture()

	req := jsonRequest(t, http.MethodPost, "/verify", map[string]string{"image": testImage()})
	recorder := httptest.NewRecorder()
	fixture.verify.Verify(recorder, req)

	// An unmatched face is still a 200: the request worked, nobody matched.
	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	if resp["success"] != true {
		t.Error("expected success true")
	}
	if resp["match"] != false {
		t.Error("expected match false")
	}
	if resp["message"] != "No matching face found" {
		t.Errorf("expected no-match message, got '%v'", resp["message"])
	}
	if _, present := resp["person"]; present {
		t.Error("expected no person object for an unmatched face")
	}
}

func TestVerifyMissingImage(t *testing.T) {
	fixture := newTestFixture()

	req := jsonRequest(t, http.MethodPost, "/verify", map[string]string{})
	recorder := httptest.NewRecorder()
	fixture.verify.Verify(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)

	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	if resp["success"] != false {
		t.Error("expected success false")
	}
	if resp["message"] != "No image provided" {
		t.Errorf("expected missing image message, got '%v'", resp["message"])
	}
}

func TestVerifyNoFaceDetected(t *testing.T) {
	fixture := newTestFixture()
	fixture.gateway.SearchError = recognition.ErrNoFaceDetected

	req := jsonRequest(t, http.MethodPost, "/verify", map[string]string{"image": testImage()})
	recorder := httptest.NewRecorder()
	fixture.verify.Verify(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "No face detected in the provided image")
}

func TestVerifyMatchWithoutIdentity(t *testing.T) {
	fixture := newTestFixture()
	fixture.gateway.SearchMatch = &recognition.Match{FaceID: "rek-orphan", Similarity: 91.0}

	req := jsonRequest(t, http.MethodPost, "/verify", map[string]string{"image": testImage()})
	recorder := httptest.NewRecorder()
	fixture.verify.Verify(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	if resp["match"] != false {
		t.Error("expected match false for an orphaned collection face")
	}
	if resp["message"] != "Face found but no person data" {
		t.Errorf("expected orphan message, got '%v'", resp["message"])
	}
}
