package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chibi-tools/gatekeeper/internal/config"
)

// LogEntry is one audit record of a gate decision or protocol event
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	HookKey   string                 `json:"hook_key"`
	Event     string                 `json:"event"`
	ToolName  string                 `json:"tool_name"`
	Path      string                 `json:"path,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// logHookEvent centralizes structured audit logging.
// It is a no-op if LoggingEnabled is false.
func logHookEvent(ctx *HookContext, hookKey, event, toolName, path string, details map[string]interface{}) {
	if ctx == nil || !ctx.LoggingEnabled {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		HookKey:   hookKey,
		Event:     event,
		ToolName:  toolName,
		Path:      path,
		Details:   details,
	}

	logDir := ctx.LoggingDir
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory %s: %v\n", logDir, err)
		return
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("%s.log", hookKey))

	var jsonData []byte
	var err error
	if ctx.LoggingFormat == config.LoggingFormatPretty {
		jsonData, err = json.MarshalIndent(entry, "", "  ")
	} else {
		jsonData, err = json.Marshal(entry)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
		return
	}

	file, err := ctx.FileSystem.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", logFile, err)
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write to log file: %v\n", err)
	}
}
