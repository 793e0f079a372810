package config

import (
	"os"
	"testing"
)

// resetGlobal clears the singleton for the duration of a test.
func resetGlobal(t *testing.T) {
	t.Helper()
	SetConfig(nil)
	t.Cleanup(func() { SetConfig(nil) })
}

func TestInitialize(t *testing.T) {
	resetGlobal(t)
	path := writeConfig(t, "store:\n  path: first.db\n")

	if GetConfig() != nil {
		t.Fatal("expected nil config before Initialize")
	}
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil || cfg.Store.Path != "first.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if Path() != path {
		t.Errorf("expected path %q, got %q", path, Path())
	}
}

func TestInitialize_InvalidFileKeepsPrevious(t *testing.T) {
	resetGlobal(t)
	good := writeConfig(t, "store:\n  path: good.db\n")
	bad := writeConfig(t, "store:\n  driver: oracle\n")

	if err := Initialize(good); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := Initialize(bad); err == nil {
		t.Fatal("expected error for invalid config")
	}
	if GetConfig().Store.Path != "good.db" {
		t.Errorf("expected previous config to remain, got %+v", GetConfig().Store)
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobal(t)
	path := writeConfig(t, "telemetry:\n  logging:\n    level: info\n")

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	cfg, err := ReloadConfig()
	if err != nil {
		t.Fatalf("ReloadConfig failed: %v", err)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected debug after reload, got %q", cfg.Telemetry.Logging.Level)
	}
	if GetConfig() != cfg {
		t.Error("expected global config to be replaced")
	}
}

func TestReloadConfig_ValidationFailure(t *testing.T) {
	resetGlobal(t)
	path := writeConfig(t, "telemetry:\n  logging:\n    level: info\n")

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	before := GetConfig()

	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: chatty\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	if _, err := ReloadConfig(); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != before {
		t.Error("expected existing config to remain after failed reload")
	}
}

func TestReloadConfig_NoFile(t *testing.T) {
	resetGlobal(t)
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := ReloadConfig(); err == nil {
		t.Error("expected error when no file was loaded")
	}
}

func TestMustGetConfig(t *testing.T) {
	resetGlobal(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic before Initialize")
		}
	}()
	MustGetConfig()
}
