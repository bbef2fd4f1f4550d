package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chibi-tools/gatekeeper/internal/constants"
)

// GateConfig holds the permission gate's own knobs. Both channels default
// when empty: payloadSource to "stdin" and promptSource to "tty".
type GateConfig struct {
	PayloadSource string `json:"payloadSource,omitempty"`
	PromptSource  string `json:"promptSource,omitempty"`
}

// Prompt source values for GateConfig.PromptSource.
const (
	PromptSourceTTY   = "tty"
	PromptSourceStdin = "stdin"
)

// IsValidPromptSource returns true if the provided source is supported.
func IsValidPromptSource(s string) bool {
	return s == PromptSourceTTY || s == PromptSourceStdin
}

// PluginConfig stores per-plugin settings. A nil Enabled means default
// (enabled). If Enabled=false, the plugin is disabled.
type PluginConfig struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// Settings is the gatekeeper settings file under .chibi/. Unknown fields
// are preserved across load/save so other tools can share the file.
type Settings struct {
	Gate        GateConfig              `json:"gate,omitempty"`
	Plugins     map[string]PluginConfig `json:"plugins,omitempty"`
	LogRotation *LogRotationConfig      `json:"logRotation,omitempty"`
	Other       map[string]interface{}  `json:"-"`
}

// GetSettingsPath returns the settings file location: ~/.chibi for global
// scope, ./.chibi for project scope.
func GetSettingsPath(global bool) (string, error) {
	base, err := scopeDir(global)
	if err != nil {
		return "", err
	}
	return constants.GetSettingsFilePath(base), nil
}

func scopeDir(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %v", err)
		}
		return homeDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %v", err)
	}
	return cwd, nil
}

// LoadSettings reads a settings file, returning empty settings if the file
// does not exist.
func LoadSettings(settingsPath string) (*Settings, error) {
	settings := &Settings{
		Plugins: make(map[string]PluginConfig),
		Other:   make(map[string]interface{}),
	}

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(settingsPath) // #nosec G304 - controlled settings paths
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %v", err)
	}

	// Unmarshal twice: once generically to preserve unknown fields, once
	// into the typed struct.
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %v", err)
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %v", err)
	}

	delete(raw, "gate")
	delete(raw, "plugins")
	delete(raw, "logRotation")
	settings.Other = raw

	if settings.Plugins == nil {
		settings.Plugins = make(map[string]PluginConfig)
	}

	return settings, nil
}

// SaveSettings writes the settings file, merging unknown fields back in.
func SaveSettings(settingsPath string, settings *Settings) error {
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	output := make(map[string]interface{})
	for k, v := range settings.Other {
		output[k] = v
	}
	if settings.Gate != (GateConfig{}) {
		output["gate"] = settings.Gate
	}
	if len(settings.Plugins) > 0 {
		output["plugins"] = settings.Plugins
	}
	if settings.LogRotation != nil {
		output["logRotation"] = settings.LogRotation
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}

	if err := os.WriteFile(settingsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %v", err)
	}

	return nil
}

// IsPluginEnabled returns true if the plugin is enabled (default) or
// explicitly enabled. Returns false if explicitly disabled.
func (s *Settings) IsPluginEnabled(key string) bool {
	if s == nil || s.Plugins == nil {
		return true
	}
	cfg, ok := s.Plugins[key]
	if !ok || cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// IsPluginEnabled checks project settings first, then global. Defaults to
// enabled if settings cannot be loaded or the plugin key is absent.
func IsPluginEnabled(pluginKey string) bool {
	if projectPath, err := GetSettingsPath(false); err == nil {
		if s, err := LoadSettings(projectPath); err == nil {
			if !s.IsPluginEnabled(pluginKey) {
				return false
			}
		}
	}
	if globalPath, err := GetSettingsPath(true); err == nil {
		if s, err := LoadSettings(globalPath); err == nil {
			if !s.IsPluginEnabled(pluginKey) {
				return false
			}
		}
	}
	return true
}

// EffectiveGateConfig resolves the gate configuration with project scope
// taking precedence over global, field by field.
func EffectiveGateConfig() GateConfig {
	var cfg GateConfig
	// Global first, then project overrides.
	for _, global := range []bool{true, false} {
		path, err := GetSettingsPath(global)
		if err != nil {
			continue
		}
		s, err := LoadSettings(path)
		if err != nil {
			continue
		}
		if s.Gate.PayloadSource != "" {
			cfg.PayloadSource = s.Gate.PayloadSource
		}
		if s.Gate.PromptSource != "" {
			cfg.PromptSource = s.Gate.PromptSource
		}
	}
	return cfg
}
