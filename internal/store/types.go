// Package store defines the persistent data model and storage interfaces.
package store

// Identity status values. An identity is indexed only after the recognition
// service confirmed enrollment and returned a face id.
const (
	StatusIndexed   = "indexed"
	StatusUnindexed = "unindexed"
)

// Attendance event kinds.
const (
	TypeCheckin  = "checkin"
	TypeCheckout = "checkout"
)

// Identity is a registered person. FaceID is the primary key, generated at
// registration time. RekognitionFaceID is the recognition service's own
// face id; empty when enrollment failed (Status == unindexed).
type Identity struct {
	FaceID            string `json:"faceId" dynamodbav:"faceId"`
	RekognitionFaceID string `json:"rekognitionFaceId,omitempty" dynamodbav:"rekognitionFaceId,omitempty"`
	FirstName         string `json:"firstName" dynamodbav:"firstName"`
	LastName          string `json:"lastName" dynamodbav:"lastName"`
	DateOfBirth       string `json:"dateOfBirth" dynamodbav:"dateOfBirth"`
	PhoneNumber       string `json:"phoneNumber" dynamodbav:"phoneNumber"`
	ImageKey          string `json:"imageKey" dynamodbav:"imageKey"`
	Status            string `json:"status" dynamodbav:"status"`
	CreatedAt         string `json:"createdAt" dynamodbav:"createdAt"`
}

// Indexed reports whether the identity has a confirmed recognition face id.
func (i *Identity) Indexed() bool {
	return i.Status == StatusIndexed && i.RekognitionFaceID != ""
}

// AttendanceRecord is one immutable entry in the append-only attendance log.
// Person fields are snapshotted at write time so later identity edits do not
// rewrite history. Records are never updated or deleted.
type AttendanceRecord struct {
	AttendanceID string   `json:"attendanceId" dynamodbav:"attendanceId"`
	FaceID       string   `json:"faceId" dynamodbav:"faceId"`
	FirstName    string   `json:"firstName" dynamodbav:"firstName"`
	LastName     string   `json:"lastName" dynamodbav:"lastName"`
	DateOfBirth  string   `json:"dateOfBirth" dynamodbav:"dateOfBirth"`
	PhoneNumber  string   `json:"phoneNumber" dynamodbav:"phoneNumber"`
	Type         string   `json:"type" dynamodbav:"type"`
	Confidence   *float64 `json:"confidence,omitempty" dynamodbav:"confidence,omitempty"`
	Timestamp    string   `json:"timestamp" dynamodbav:"timestamp"`
	Date         string   `json:"date" dynamodbav:"date"`
	Time         string   `json:"time" dynamodbav:"time"`
	CreatedAt    string   `json:"createdAt" dynamodbav:"createdAt"`
}

// ValidType reports whether t is a known attendance event kind.
func ValidType(t string) bool {
	return t == TypeCheckin || t == TypeCheckout
}
