// Package handlers provides the HTTP handlers for the attendance API.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

var errEmptyImage = errors.New("empty image data")

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeImage decodes a base64 image payload. Browser capture widgets send
// data URLs ("data:image/jpeg;base64,..."), so an optional prefix up to the
// first comma is stripped.
func decodeImage(data string) ([]byte, error) {
	if _, rest, ok := strings.Cut(data, ","); ok {
		data = rest
	}
	if data == "" {
		return nil, errEmptyImage
	}
	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, errEmptyImage
	}
	return image, nil
}

// HealthCheck handles the health probe endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Server running",
	})
}
