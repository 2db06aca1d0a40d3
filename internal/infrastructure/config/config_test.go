package config

import (
	"encoding/base64"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CHANNEL_SECRET", "secret")
	t.Setenv("CHANNEL_ACCESS_TOKEN", "token")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.BotID != "@tildy" {
		t.Fatalf("expected default bot ID, got %q", cfg.BotID)
	}
	if cfg.NextDayThresholdHours != 6 {
		t.Fatalf("expected default threshold 6, got %d", cfg.NextDayThresholdHours)
	}
	if len(cfg.Triggers) != len(DefaultTriggers()) {
		t.Fatalf("expected default trigger table, got %d triggers", len(cfg.Triggers))
	}
	if cfg.Triggers[0].Name != "add_reminder" {
		t.Fatalf("add_reminder must lead the table, got %q", cfg.Triggers[0].Name)
	}
}

func TestLoadRequiresChannelCredentials(t *testing.T) {
	t.Setenv("CHANNEL_SECRET", "")
	t.Setenv("CHANNEL_ACCESS_TOKEN", "token")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without CHANNEL_SECRET")
	}

	t.Setenv("CHANNEL_SECRET", "secret")
	t.Setenv("CHANNEL_ACCESS_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without CHANNEL_ACCESS_TOKEN")
	}
}

func TestLoadTriggerTableOverride(t *testing.T) {
	setRequiredEnv(t)
	encoded := base64.StdEncoding.EncodeToString([]byte(
		`[{"name":"ping","pattern":"!ping"}]`))
	t.Setenv("TILDY_TRIGGERS", encoded)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Triggers) != 1 || cfg.Triggers[0].Name != "ping" {
		t.Fatalf("expected overridden trigger table, got %+v", cfg.Triggers)
	}
}

func TestLoadRejectsMalformedTriggerTable(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("TILDY_TRIGGERS", "not base64!!")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid base64")
	}

	t.Setenv("TILDY_TRIGGERS", base64.StdEncoding.EncodeToString([]byte("{broken")))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
	t.Setenv("PORT", "9090")

	t.Setenv("TILDY_NEXT_DAY_THRESHOLD_HOURS", "six")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid threshold")
	}
	t.Setenv("TILDY_NEXT_DAY_THRESHOLD_HOURS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 || cfg.NextDayThresholdHours != 4 {
		t.Fatalf("expected overrides applied, got port=%d threshold=%d", cfg.Port, cfg.NextDayThresholdHours)
	}
}
