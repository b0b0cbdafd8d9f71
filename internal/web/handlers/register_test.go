package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/store"
)

func validRegisterBody() map[string]any {
	return map[string]any{
		"firstName":   "Jane",
		"lastName":    "Doe",
		"dateOfBirth": "1990-05-14",
		"phoneNumber": "+420123456789",
		"image":       testImage(),
	}
}

func TestRegisterSuccess(t *testing.T) {
	fixture := newTestFixture()

	req := jsonRequest(t, http.MethodPost, "/register", validRegisterBody())
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var resp map[string]any
	parseJSONResponse(t, recorder, &resp)
	if resp["message"] != "Registration successful" {
		t.Errorf("expected success message, got '%v'", resp["message"])
	}
	faceID, _ := resp["faceId"].(string)
	if faceID == "" {
		t.Fatal("expected a faceId in the response")
	}
	if resp["status"] != store.StatusIndexed {
		t.Errorf("expected status '%s', got '%v'", store.StatusIndexed, resp["status"])
	}

	identity, err := fixture.identities.Get(req.Context(), faceID)
	if err != nil {
		t.Fatalf("identity was not persisted: %v", err)
	}
	if identity.FirstName != "Jane" {
		t.Errorf("expected first name 'Jane', got '%s'", identity.FirstName)
	}
	if fixture.blobs.Len() != 1 {
		t.Errorf("expected 1 stored image, got %d", fixture.blobs.Len())
	}
}

func TestRegisterMissingFields(t *testing.T) {
	fixture := newTestFixture()

	body := validRegisterBody()
	delete(body, "lastName")

	req := jsonRequest(t, http.MethodPost, "/register", body)
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "Missing fields")
}

func TestRegisterInvalidBody(t *testing.T) {
	fixture := newTestFixture()

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, errInvalidRequestBody)
}

func TestRegisterInvalidImage(t *testing.T) {
	fixture := newTestFixture()

	body := validRegisterBody()
	body["image"] = "###not-base64###"

	req := jsonRequest(t, http.MethodPost, "/register", body)
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "invalid image data")
}

func TestRegisterNoFaceDetected(t *testing.T) {
	fixture := newTestFixture()
	fixture.gateway.EnrollError = recognition.ErrNoFaceDetected

	req := jsonRequest(t, http.MethodPost, "/register", validRegisterBody())
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)

	identities, err := fixture.identities.List(req.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(identities) != 0 {
		t.Errorf("expected no identities after failed registration, got %d", len(identities))
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	fixture := newTestFixture()
	fixture.identities.PutError = errors.New("dynamo down")

	req := jsonRequest(t, http.MethodPost, "/register", validRegisterBody())
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "Registration failed")
}

func TestGetFace(t *testing.T) {
	fixture := newTestFixture()

	req := jsonRequest(t, http.MethodPost, "/register", validRegisterBody())
	recorder := httptest.NewRecorder()
	fixture.register.Register(recorder, req)
	assertStatusCode(t, recorder, http.StatusOK)

	var created map[string]any
	parseJSONResponse(t, recorder, &created)
	faceID := created["faceId"].(string)

	getReq := httptest.NewRequest(http.MethodGet, "/get_face/"+faceID, nil)
	getReq = requestWithChiParams(getReq, map[string]string{"faceId": faceID})
	getRecorder := httptest.NewRecorder()
	fixture.register.GetFace(getRecorder, getReq)

	assertStatusCode(t, getRecorder, http.StatusOK)

	var identity store.Identity
	parseJSONResponse(t, getRecorder, &identity)
	if identity.FaceID != faceID {
		t.Errorf("expected face id '%s', got '%s'", faceID, identity.FaceID)
	}
	if identity.LastName != "Doe" {
		t.Errorf("expected last name 'Doe', got '%s'", identity.LastName)
	}
}

func TestGetFaceNotFound(t *testing.T) {
	fixture := newTestFixture()

	req := httptest.NewRequest(http.MethodGet, "/get_face/missing", nil)
	req = requestWithChiParams(req, map[string]string{"faceId": "missing"})
	recorder := httptest.NewRecorder()
	fixture.register.GetFace(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "Face not found")
}
