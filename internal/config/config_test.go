package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("expected default region us-east-1, got %s", cfg.AWS.Region)
	}
	if cfg.Recognition.CollectionID != "face-collection" {
		t.Errorf("expected default collection face-collection, got %s", cfg.Recognition.CollectionID)
	}
	if cfg.Recognition.SimilarityPercent != 80 {
		t.Errorf("expected default threshold 80, got %f", cfg.Recognition.SimilarityPercent)
	}
	if cfg.Storage.AttendanceTable != "attendance-records" {
		t.Errorf("expected default attendance table, got %s", cfg.Storage.AttendanceTable)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("IDENTITY_TABLE", "identities-test")
	t.Setenv("FACE_MATCH_THRESHOLD", "92.5")
	t.Setenv("WEB_PORT", "9090")

	cfg := Load()

	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("expected region eu-west-1, got %s", cfg.AWS.Region)
	}
	if cfg.Storage.IdentityTable != "identities-test" {
		t.Errorf("expected identity table identities-test, got %s", cfg.Storage.IdentityTable)
	}
	if cfg.Recognition.SimilarityPercent != 92.5 {
		t.Errorf("expected threshold 92.5, got %f", cfg.Recognition.SimilarityPercent)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestEnvIntRejectsInvalidValues(t *testing.T) {
	t.Setenv("WEB_PORT", "not-a-number")
	if got := Load().Server.Port; got != 8080 {
		t.Errorf("expected fallback 8080 for invalid port, got %d", got)
	}

	t.Setenv("WEB_PORT", "-5")
	if got := Load().Server.Port; got != 8080 {
		t.Errorf("expected fallback 8080 for negative port, got %d", got)
	}
}
