package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Missing file should yield empty settings, got error: %v", err)
	}

	if !settings.IsPluginEnabled("file-permission") {
		t.Error("Plugins should default to enabled")
	}
	if settings.Gate.PayloadSource != "" {
		t.Errorf("Expected empty payload source, got %q", settings.Gate.PayloadSource)
	}
}

func TestSettingsRoundTripPreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatekeeper.json")
	original := `{
  "gate": {"payloadSource": "env"},
  "someOtherTool": {"keep": "me"}
}`
	if err := os.WriteFile(path, []byte(original), 0o600); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Gate.PayloadSource != "env" {
		t.Errorf("Expected payload source 'env', got %q", settings.Gate.PayloadSource)
	}

	disabled := false
	settings.Plugins["file-permission"] = PluginConfig{Enabled: &disabled}
	if err := SaveSettings(path, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reloaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.IsPluginEnabled("file-permission") {
		t.Error("Expected plugin to stay disabled after round trip")
	}
	if _, ok := reloaded.Other["someOtherTool"]; !ok {
		t.Error("Unknown field was dropped on save")
	}
}

func TestLoadSettingsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatekeeper.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("Expected an error for malformed settings JSON")
	}
}

func TestIsPluginEnabledExplicitValues(t *testing.T) {
	enabled := true
	disabled := false

	testCases := []struct {
		name     string
		settings *Settings
		want     bool
	}{
		{"nil settings", nil, true},
		{"absent key", &Settings{Plugins: map[string]PluginConfig{}}, true},
		{"nil enabled", &Settings{Plugins: map[string]PluginConfig{"gate": {}}}, true},
		{"explicitly enabled", &Settings{Plugins: map[string]PluginConfig{"gate": {Enabled: &enabled}}}, true},
		{"explicitly disabled", &Settings{Plugins: map[string]PluginConfig{"gate": {Enabled: &disabled}}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.settings.IsPluginEnabled("gate"); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsValidPromptSource(t *testing.T) {
	if !IsValidPromptSource(PromptSourceTTY) || !IsValidPromptSource(PromptSourceStdin) {
		t.Error("Built-in prompt sources should validate")
	}
	if IsValidPromptSource("serial") {
		t.Error("Unknown prompt source should not validate")
	}
}
