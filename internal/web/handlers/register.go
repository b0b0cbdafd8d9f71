package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/registration"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// RegisterHandler handles identity registration and lookup.
type RegisterHandler struct {
	service *registration.Service
}

// NewRegisterHandler creates a new register handler.
func NewRegisterHandler(service *registration.Service) *RegisterHandler {
	return &RegisterHandler{service: service}
}

type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
	Image       string `json:"image"`
}

// Register handles POST /register.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var image []byte
	if req.Image != "" {
		decoded, err := decodeImage(req.Image)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid image data")
			return
		}
		image = decoded
	}

	identity, err := h.service.Register(r.Context(), registration.Input{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Image:       image,
	})
	switch {
	case errors.Is(err, registration.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "Missing fields")
		return
	case errors.Is(err, recognition.ErrNoFaceDetected):
		respondError(w, http.StatusBadRequest,
			"No face detected in the uploaded image. Please ensure your face is clearly visible and well-lit.")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Registration successful",
		"faceId":  identity.FaceID,
		"status":  identity.Status,
	})
}

// GetFace handles GET /get_face/{faceId}.
func (h *RegisterHandler) GetFace(w http.ResponseWriter, r *http.Request) {
	faceID := chi.URLParam(r, "faceId")

	identity, err := h.service.Get(r.Context(), faceID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Face not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, identity)
}
