package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chibi-tools/gatekeeper/internal/constants"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotationConfig holds configuration for verdict audit log rotation
type LogRotationConfig struct {
	MaxAge     int  `json:"maxAge"`     // Maximum number of days to retain log files
	MaxSize    int  `json:"maxSize"`    // Maximum size in megabytes before rotation
	MaxBackups int  `json:"maxBackups"` // Maximum number of backup files to retain
	Compress   bool `json:"compress"`   // Whether to compress rotated files
}

// DefaultLogRotationConfig returns sensible defaults for log rotation
func DefaultLogRotationConfig() LogRotationConfig {
	return LogRotationConfig{
		MaxAge:     30,
		MaxSize:    10,
		MaxBackups: 5,
		Compress:   true,
	}
}

// GetLogRotationConfig resolves the rotation config from settings, project
// scope first, falling back to global and then to defaults.
func GetLogRotationConfig() LogRotationConfig {
	for _, global := range []bool{false, true} {
		path, err := GetSettingsPath(global)
		if err != nil {
			continue
		}
		settings, err := LoadSettings(path)
		if err != nil || settings.LogRotation == nil {
			continue
		}
		return *settings.LogRotation
	}
	return DefaultLogRotationConfig()
}

// SetupLogRotation configures log rotation for a given log file path
func SetupLogRotation(logPath string, config LogRotationConfig) *lumberjack.Logger {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return nil
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true,
	}
}

// CleanupOldLogs removes log files older than the specified number of days.
// This provides additional cleanup beyond lumberjack's built-in MaxAge.
func CleanupOldLogs(logDir string, maxAgeDays int) error {
	if maxAgeDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	return filepath.Walk(logDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".log" || filepath.Ext(path) == ".gz" {
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err != nil {
					log.Printf("Failed to remove old log file %s: %v", path, err)
				}
			}
		}
		return nil
	})
}

// GetLogPath returns the standard audit log path for a given plugin key
func GetLogPath(pluginKey string) string {
	return filepath.Join(constants.ChibiDir, constants.LogsSubDir, fmt.Sprintf("%s.log", pluginKey))
}

// Logging format constants
const (
	LoggingFormatJSONL  = "jsonl"
	LoggingFormatPretty = "pretty"
)

// IsValidLoggingFormat returns true if the provided format is supported.
func IsValidLoggingFormat(f string) bool {
	return f == LoggingFormatJSONL || f == LoggingFormatPretty
}
