package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("PATHSTORE_API_KEY", "")
	t.Setenv("PATHSTORE_PREFIX", "")

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.PathstorePrefix != "clausegest" {
		t.Errorf("expected default prefix, got %q", cfg.PathstorePrefix)
	}
	if cfg.PublishEnabled() {
		t.Error("expected publishing disabled without PATHSTORE_API_KEY")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("PATHSTORE_RPS", "12.5")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("INBOX_DEBOUNCE", "not-a-duration")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("PATHSTORE_API_KEY", "ps")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count to reset to 4, got %d", cfg.WorkerCount)
	}
	if cfg.PathstoreRPS != 12.5 {
		t.Errorf("expected rps 12.5, got %v", cfg.PathstoreRPS)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m TTL, got %v", cfg.JobTTL)
	}
	if cfg.InboxDebounce != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.InboxDebounce)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if !cfg.PublishEnabled() {
		t.Error("expected publishing enabled")
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error without API key")
	}
	if err := (Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
