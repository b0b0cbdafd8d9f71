package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSetupWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf)

	log.Info("attendance recorded", "face_id", "abc-123", "type", "checkin")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if entry["msg"] != "attendance recorded" {
		t.Errorf("expected msg field, got %v", entry["msg"])
	}
	if entry["face_id"] != "abc-123" {
		t.Errorf("expected face_id attribute, got %v", entry["face_id"])
	}
}

func TestSetupFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf)

	log.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected debug output to be filtered, got: %s", buf.String())
	}
}
