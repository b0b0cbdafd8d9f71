// Package attendance records attendance events and derives occupancy
// aggregates from the append-only event log.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/store"
)

var (
	// ErrMissingFaceID: the event carried no identity key.
	ErrMissingFaceID = errors.New("face id is required")
	// ErrInvalidType: the event kind is neither checkin nor checkout.
	ErrInvalidType = errors.New("type must be checkin or checkout")
)

// timestampLayout is fixed-width so timestamp strings sort
// lexicographically in chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Service appends attendance events and answers listing and stats queries
// by reading the log back. It holds no derived state of its own.
type Service struct {
	log     store.AttendanceLog
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates an attendance service over the given log.
func NewService(log store.AttendanceLog, rec metrics.Recorder, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		log:     log,
		metrics: rec,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordInput describes one attendance event to append.
type RecordInput struct {
	FaceID     string
	Type       string // defaults to checkin
	Confidence *float64
	Person     PersonSnapshot
}

// PersonSnapshot is the denormalized person data copied into each record
// at write time.
type PersonSnapshot struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	PhoneNumber string
}

// Filter selects records for List. Zero values match everything.
type Filter struct {
	Date   string // calendar date, e.g. 2026-08-30
	FaceID string // one identity's history
	Kind   string // checkin or checkout
	Limit  int
}

// Record appends one attendance event and returns the stored record.
func (s *Service) Record(ctx context.Context, input RecordInput) (*store.AttendanceRecord, error) {
	if input.FaceID == "" {
		return nil, ErrMissingFaceID
	}
	kind := input.Type
	if kind == "" {
		kind = store.TypeCheckin
	}
	if !store.ValidType(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, input.Type)
	}

	now := s.now().UTC()
	timestamp := now.Format(timestampLayout)
	// The id carries the event kind so that a checkin and a checkout for
	// the same person within the same second stay distinct events, while a
	// retried duplicate of the same event still lands on the same id.
	record := &store.AttendanceRecord{
		AttendanceID: fmt.Sprintf("att_%s_%s_%s", now.Format("20060102_150405"), kind, input.FaceID),
		FaceID:       input.FaceID,
		FirstName:    defaultString(input.Person.FirstName, "Unknown"),
		LastName:     defaultString(input.Person.LastName, "Unknown"),
		DateOfBirth:  input.Person.DateOfBirth,
		PhoneNumber:  input.Person.PhoneNumber,
		Type:         kind,
		Confidence:   input.Confidence,
		Timestamp:    timestamp,
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		CreatedAt:    timestamp,
	}

	if err := s.log.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("append attendance record: %w", err)
	}

	s.metrics.RecordAttendanceEvent(kind)
	s.logger.Info("attendance recorded",
		"attendance_id", record.AttendanceID,
		"face_id", record.FaceID,
		"type", record.Type,
	)
	return record, nil
}

// List returns records matching the filter, newest first. An empty log
// yields an empty result, never an error.
func (s *Service) List(ctx context.Context, filter Filter) ([]store.AttendanceRecord, error) {
	var (
		records []store.AttendanceRecord
		err     error
	)
	// Kind and date narrowing can happen after the read, so the store
	// limit is only pushed down when nothing gets filtered out afterwards.
	narrowed := filter.Kind != "" || (filter.FaceID != "" && filter.Date != "")
	storeLimit := filter.Limit
	if narrowed {
		storeLimit = 0
	}
	switch {
	case filter.FaceID != "":
		records, err = s.log.QueryByFace(ctx, filter.FaceID, storeLimit)
	case filter.Date != "":
		records, err = s.log.QueryByDate(ctx, filter.Date, storeLimit)
	default:
		records, err = s.log.Scan(ctx, storeLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}

	filtered := records[:0]
	for _, record := range records {
		if filter.Kind != "" && record.Type != filter.Kind {
			continue
		}
		if filter.FaceID != "" && filter.Date != "" && record.Date != filter.Date {
			continue
		}
		filtered = append(filtered, record)
	}
	records = filtered
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

// Stats recomputes the aggregates for one date from that day's records.
// An empty date defaults to the current UTC date. A date with no records
// yields all-zero stats, never an error.
func (s *Service) Stats(ctx context.Context, date string) (*Stats, error) {
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}
	records, err := s.log.QueryByDate(ctx, date, 0)
	if err != nil {
		return nil, fmt.Errorf("load attendance records for %s: %w", date, err)
	}
	return computeStats(date, records), nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
