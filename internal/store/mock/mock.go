// Package mock provides in-memory implementations of the storage
// interfaces for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// IdentityStore is an in-memory implementation of store.IdentityStore.
type IdentityStore struct {
	mu         sync.RWMutex
	identities map[string]store.Identity

	// Error injection
	PutError    error
	GetError    error
	ListError   error
	DeleteError error
}

// NewIdentityStore creates an empty in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{identities: make(map[string]store.Identity)}
}

// Put inserts or overwrites an identity.
func (m *IdentityStore) Put(ctx context.Context, identity *store.Identity) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[identity.FaceID] = *identity
	return nil
}

// Get retrieves an identity by face id.
func (m *IdentityStore) Get(ctx context.Context, faceID string) (*store.Identity, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	identity, ok := m.identities[faceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &identity, nil
}

// GetByRekognitionFaceID finds an identity by its recognition face id.
func (m *IdentityStore) GetByRekognitionFaceID(ctx context.Context, rekognitionFaceID string) (*store.Identity, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, identity := range m.identities {
		if identity.RekognitionFaceID == rekognitionFaceID {
			found := identity
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// List returns all identities.
func (m *IdentityStore) List(ctx context.Context) ([]store.Identity, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var identities []store.Identity
	for _, identity := range m.identities {
		identities = append(identities, identity)
	}
	return identities, nil
}

// ListUnindexed returns identities without a confirmed enrollment.
func (m *IdentityStore) ListUnindexed(ctx context.Context) ([]store.Identity, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var identities []store.Identity
	for _, identity := range m.identities {
		if identity.Status != store.StatusIndexed {
			identities = append(identities, identity)
		}
	}
	return identities, nil
}

// Delete removes an identity; missing identities are ignored.
func (m *IdentityStore) Delete(ctx context.Context, faceID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.identities, faceID)
	return nil
}

// AttendanceLog is an in-memory implementation of store.AttendanceLog.
type AttendanceLog struct {
	mu      sync.RWMutex
	records []store.AttendanceRecord

	// Error injection
	PutError   error
	QueryError error
	ScanError  error
}

// NewAttendanceLog creates an empty in-memory attendance log.
func NewAttendanceLog() *AttendanceLog {
	return &AttendanceLog{}
}

// Put appends one record.
func (m *AttendanceLog) Put(ctx context.Context, record *store.AttendanceRecord) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.AttendanceID == record.AttendanceID {
			return nil
		}
	}
	m.records = append(m.records, *record)
	return nil
}

// QueryByDate returns one day's records, newest first.
func (m *AttendanceLog) QueryByDate(ctx context.Context, date string, limit int) ([]store.AttendanceRecord, error) {
	return m.filter(func(r store.AttendanceRecord) bool { return r.Date == date }, limit)
}

// QueryByFace returns one identity's records, newest first.
func (m *AttendanceLog) QueryByFace(ctx context.Context, faceID string, limit int) ([]store.AttendanceRecord, error) {
	return m.filter(func(r store.AttendanceRecord) bool { return r.FaceID == faceID }, limit)
}

// Scan returns all records, newest first.
func (m *AttendanceLog) Scan(ctx context.Context, limit int) ([]store.AttendanceRecord, error) {
	if m.ScanError != nil {
		return nil, m.ScanError
	}
	return m.filter(func(store.AttendanceRecord) bool { return true }, limit)
}

// Records returns a copy of everything in the log, in insertion order.
func (m *AttendanceLog) Records() []store.AttendanceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.AttendanceRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *AttendanceLog) filter(match func(store.AttendanceRecord) bool, limit int) ([]store.AttendanceRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []store.AttendanceRecord
	for _, record := range m.records {
		if match(record) {
			records = append(records, record)
		}
	}
	store.SortNewestFirst(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
