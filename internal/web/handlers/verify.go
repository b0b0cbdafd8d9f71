package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/verification"
)

// VerifyHandler handles face verification.
type VerifyHandler struct {
	service *verification.Service
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(service *verification.Service) *VerifyHandler {
	return &VerifyHandler{service: service}
}

type verifyRequest struct {
	Image string `json:"image"`
}

// Verify handles POST /verify. An unmatched face is a successful response
// with match false, not an error.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Image == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "No image provided",
		})
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image data")
		return
	}

	result, err := h.service.Verify(r.Context(), image)
	switch {
	case errors.Is(err, recognition.ErrNoFaceDetected):
		respondError(w, http.StatusBadRequest, "No face detected in the provided image")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	resp := map[string]any{
		"success": true,
		"match":   result.Match,
	}
	if result.Match {
		resp["confidence"] = result.Confidence
		resp["faceId"] = result.FaceID
		resp["person"] = result.Person
	}
	if result.Message != "" {
		resp["message"] = result.Message
	}
	respondJSON(w, http.StatusOK, resp)
}
