package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultLogRotationConfig(t *testing.T) {
	cfg := DefaultLogRotationConfig()
	if cfg.MaxAge != 30 || cfg.MaxSize != 10 || cfg.MaxBackups != 5 || !cfg.Compress {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestSetupLogRotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "file-permission.log")

	logger := SetupLogRotation(logPath, DefaultLogRotationConfig())
	if logger == nil {
		t.Fatal("Expected a rotating logger")
	}
	if logger.Filename != logPath {
		t.Errorf("Expected filename %s, got %s", logPath, logger.Filename)
	}
	if logger.MaxSize != 10 {
		t.Errorf("Expected max size 10, got %d", logger.MaxSize)
	}
}

func TestGetLogPath(t *testing.T) {
	got := GetLogPath("file-permission")
	want := filepath.Join(".chibi", "logs", "file-permission.log")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestIsValidLoggingFormat(t *testing.T) {
	if !IsValidLoggingFormat(LoggingFormatJSONL) || !IsValidLoggingFormat(LoggingFormatPretty) {
		t.Error("Built-in formats should validate")
	}
	if IsValidLoggingFormat("xml") {
		t.Error("Unknown format should not validate")
	}
}
