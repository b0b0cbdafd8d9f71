package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// defaultRecordsLimit caps a records listing when the client does not ask
// for a specific limit.
const defaultRecordsLimit = 100

// AttendanceHandler handles attendance event and reporting endpoints.
type AttendanceHandler struct {
	service *attendance.Service
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(service *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

type markAttendanceRequest struct {
	FaceID      string   `json:"faceId"`
	Type        string   `json:"type"`
	Confidence  *float64 `json:"confidence"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	DateOfBirth string   `json:"dateOfBirth"`
	PhoneNumber string   `json:"phoneNumber"`
}

// Mark handles POST /attendance.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	record, err := h.service.Record(r.Context(), attendance.RecordInput{
		FaceID:     req.FaceID,
		Type:       req.Type,
		Confidence: req.Confidence,
		Person: attendance.PersonSnapshot{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: req.DateOfBirth,
			PhoneNumber: req.PhoneNumber,
		},
	})
	switch {
	case errors.Is(err, attendance.ErrMissingFaceID):
		respondError(w, http.StatusBadRequest, "Face ID is required")
		return
	case errors.Is(err, attendance.ErrInvalidType):
		respondError(w, http.StatusBadRequest, "Type must be checkin or checkout")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to record attendance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"attendanceId": record.AttendanceID,
		"record":       record,
		"message":      fmt.Sprintf("Attendance %s recorded successfully", record.Type),
	})
}

// Records handles GET /attendance/records. The date, faceId, and status
// query parameters narrow the result; status "all" means no narrowing.
func (h *AttendanceHandler) Records(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("status")
	if kind == "all" {
		kind = ""
	}

	limit := defaultRecordsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Limit must be a positive number")
			return
		}
		limit = parsed
	}

	records, err := h.service.List(r.Context(), attendance.Filter{
		Date:   r.URL.Query().Get("date"),
		FaceID: r.URL.Query().Get("faceId"),
		Kind:   kind,
		Limit:  limit,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load attendance records")
		return
	}
	if records == nil {
		records = []store.AttendanceRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

// Stats handles GET /attendance/stats.
func (h *AttendanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute attendance stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
