package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videowall", "settings.toml")

	cfg := defaultSettings
	cfg.Width = 800
	cfg.MediaDir = "/media/frames"
	cfg.Telemetry = false

	if err := saveSettings(path, cfg); err != nil {
		t.Fatalf("saveSettings: %v", err)
	}
	got, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}

	if got != cfg {
		t.Errorf("settings changed across round trip:\n  %+v\n  %+v", got, cfg)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("expected error for missing settings file")
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("width = 640\nheight = 480\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}

	// Listed keys override, the rest keep their defaults.
	if got.Width != 640 || got.Height != 480 {
		t.Errorf("canvas %dx%d, want 640x480", got.Width, got.Height)
	}
	if got.MaxContainers != defaultSettings.MaxContainers {
		t.Errorf("max containers %d, want default %d", got.MaxContainers, defaultSettings.MaxContainers)
	}
}

func TestLoadSettingsOrDefaultFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if got := loadSettingsOrDefault(); got != defaultSettings {
		t.Errorf("got %+v, want built-in defaults", got)
	}
}
