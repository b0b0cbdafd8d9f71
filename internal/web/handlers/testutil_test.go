package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/blob"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/registration"
	"github.com/kozaktomas/face-attendance/internal/store/mock"
	"github.com/kozaktomas/face-attendance/internal/verification"
)

// testImage returns a base64-encoded payload that decodeImage accepts.
func testImage() string {
	return base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
}

// testFixture bundles the in-memory stores behind a full handler set.
type testFixture struct {
	identities *mock.IdentityStore
	log        *mock.AttendanceLog
	blobs      *blob.MemoryStore
	gateway    *recognition.MockGateway

	register   *RegisterHandler
	verify     *VerifyHandler
	attendance *AttendanceHandler
}

func newTestFixture() *testFixture {
	identities := mock.NewIdentityStore()
	log := mock.NewAttendanceLog()
	blobs := blob.NewMemoryStore()
	gateway := recognition.NewMockGateway()

	return &testFixture{
		identities: identities,
		log:        log,
		blobs:      blobs,
		gateway:    gateway,
		register: NewRegisterHandler(
			registration.NewService(identities, blobs, gateway, nil, nil),
		),
		verify: NewVerifyHandler(
			verification.NewService(identities, gateway, nil, nil),
		),
		attendance: NewAttendanceHandler(
			attendance.NewService(log, nil, nil),
		),
	}
}

// jsonRequest creates a request with a JSON body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
