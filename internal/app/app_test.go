package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ETSY_CLIENT_ID", "test-client-id")
	t.Setenv("ETSY_CLIENT_SECRET", "test-client-secret")
	t.Setenv("ETSY_REFRESH_TOKEN", "test-refresh-token")
	t.Setenv("ETSY_SHOP_ID", "12345678")
}

func clearRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ETSY_CLIENT_ID", "")
	t.Setenv("ETSY_CLIENT_SECRET", "")
	t.Setenv("ETSY_REFRESH_TOKEN", "")
	t.Setenv("ETSY_SHOP_ID", "")
}

func TestInit_WithValidConfig_Succeeds(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	cfg, err := Init(&buf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.ShopID != "12345678" {
		t.Errorf("ShopID = %q, want 12345678", cfg.ShopID)
	}

	// Verify that slog global logger is configured for JSON output
	slog.Default().Info("init test")
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log output, got error: %v\nraw: %s", err, buf.String())
	}
	if entry["msg"] != "init test" {
		t.Errorf("msg = %q, want %q", entry["msg"], "init test")
	}
}

func TestInit_WithMissingConfig_ReturnsError(t *testing.T) {
	clearRequiredEnv(t)

	var buf bytes.Buffer
	cfg, err := Init(&buf)
	if err == nil {
		t.Fatal("expected error for missing required env vars, got nil")
	}
	if cfg != nil {
		t.Error("expected nil config on error")
	}
}
