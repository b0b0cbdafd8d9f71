package recognition

import (
	"context"
	"strconv"
	"sync"
)

// MockGateway is an in-memory Gateway for tests. Enrolled faces get
// sequential ids; Search returns the configured match.
type MockGateway struct {
	mu       sync.Mutex
	enrolled []Face
	nextID   int

	// SearchMatch is returned by Search when set and SearchError is nil.
	SearchMatch *Match

	// Error injection
	EnrollError error
	SearchError error
	ListError   error
	DeleteError error
	ResetError  error
}

var _ Gateway = &MockGateway{}

// NewMockGateway creates an empty mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Enroll records the face and returns a generated id.
func (m *MockGateway) Enroll(ctx context.Context, image []byte, externalID string) (string, error) {
	if m.EnrollError != nil {
		return "", m.EnrollError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	face := Face{FaceID: mockFaceID(m.nextID), ExternalImageID: externalID}
	m.enrolled = append(m.enrolled, face)
	return face.FaceID, nil
}

// Search returns the configured match, or ErrNoMatch when none is set.
func (m *MockGateway) Search(ctx context.Context, image []byte) (*Match, error) {
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if m.SearchMatch == nil {
		return nil, ErrNoMatch
	}
	match := *m.SearchMatch
	return &match, nil
}

// EnsureCollection is a no-op.
func (m *MockGateway) EnsureCollection(ctx context.Context) error { return nil }

// ListFaces returns everything enrolled so far.
func (m *MockGateway) ListFaces(ctx context.Context) ([]Face, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	faces := make([]Face, len(m.enrolled))
	copy(faces, m.enrolled)
	return faces, nil
}

// DeleteFaces removes the given ids; unknown ids are ignored.
func (m *MockGateway) DeleteFaces(ctx context.Context, faceIDs []string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]struct{}, len(faceIDs))
	for _, id := range faceIDs {
		drop[id] = struct{}{}
	}
	var kept []Face
	for _, face := range m.enrolled {
		if _, ok := drop[face.FaceID]; !ok {
			kept = append(kept, face)
		}
	}
	m.enrolled = kept
	return nil
}

// Reset clears all enrolled faces.
func (m *MockGateway) Reset(ctx context.Context) error {
	if m.ResetError != nil {
		return m.ResetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrolled = nil
	return nil
}

// EnrolledCount returns the number of currently enrolled faces.
func (m *MockGateway) EnrolledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enrolled)
}

func mockFaceID(n int) string {
	return "rek-face-" + strconv.Itoa(n)
}
