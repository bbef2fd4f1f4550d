package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chibi-tools/gatekeeper/internal/config"
	"github.com/chibi-tools/gatekeeper/internal/protocol"
)

func auditContext(t *testing.T, format string) *HookContext {
	t.Helper()
	ctx := TestHookContext(nil)
	ctx.FileSystem = &RealFileSystem{}
	ctx.LoggingEnabled = true
	ctx.LoggingDir = t.TempDir()
	ctx.LoggingFormat = format
	return ctx
}

func TestLogVerdictJSONL(t *testing.T) {
	ctx := auditContext(t, config.LoggingFormatJSONL)
	hook := NewBaseHook("file-permission", "File Permission", "test", ctx)

	hook.LogVerdict("write_file", "/tmp/a.txt", protocol.Deny(protocol.ReasonUserDenied))

	data, err := os.ReadFile(filepath.Join(ctx.LoggingDir, "file-permission.log"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Audit line is not valid JSON: %v", err)
	}
	if entry.Event != "verdict_denied" {
		t.Errorf("Expected event 'verdict_denied', got '%s'", entry.Event)
	}
	if entry.ToolName != "write_file" || entry.Path != "/tmp/a.txt" {
		t.Errorf("Unexpected entry identity: %+v", entry)
	}
	if entry.Details["reason"] != "user denied" {
		t.Errorf("Expected reason 'user denied', got %v", entry.Details["reason"])
	}
}

func TestLogVerdictApprovedEvent(t *testing.T) {
	ctx := auditContext(t, config.LoggingFormatJSONL)
	hook := NewBaseHook("file-permission", "File Permission", "test", ctx)

	hook.LogVerdict("write_file", "/tmp/a.txt", protocol.Approve(protocol.ReasonUserApproved))

	data, err := os.ReadFile(filepath.Join(ctx.LoggingDir, "file-permission.log"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	if !strings.Contains(string(data), "verdict_approved") {
		t.Errorf("Expected a verdict_approved event, got %s", data)
	}
}

func TestLogVerdictMockFileSystemCapturesInMemory(t *testing.T) {
	ctx := TestHookContext(nil)
	fs := NewMockFileSystem()
	ctx.FileSystem = fs
	ctx.LoggingEnabled = true
	ctx.LoggingDir = t.TempDir()
	hook := NewBaseHook("file-permission", "File Permission", "test", ctx)

	hook.LogVerdict("write_file", "/tmp/a.txt", protocol.Deny(protocol.ReasonUserDenied))

	logFile := filepath.Join(ctx.LoggingDir, "file-permission.log")
	data, ok := fs.Files[logFile]
	if !ok {
		t.Fatalf("Expected log entry captured in memory at %s, files: %v", logFile, fs.Files)
	}
	if !strings.Contains(string(data), "verdict_denied") {
		t.Errorf("Expected a verdict_denied event, got %s", data)
	}
	// The mock must not leave anything on the real filesystem.
	if _, err := os.Stat(logFile); !os.IsNotExist(err) {
		t.Error("Mock filesystem should not create real files")
	}
}

func TestLogDisabledWritesNothing(t *testing.T) {
	ctx := auditContext(t, config.LoggingFormatJSONL)
	ctx.LoggingEnabled = false
	hook := NewBaseHook("file-permission", "File Permission", "test", ctx)

	hook.LogVerdict("write_file", "/tmp/a.txt", protocol.Deny(protocol.ReasonUserDenied))

	if _, err := os.Stat(filepath.Join(ctx.LoggingDir, "file-permission.log")); !os.IsNotExist(err) {
		t.Error("Disabled logging should not create a log file")
	}
}

func TestLogPrettyFormat(t *testing.T) {
	ctx := auditContext(t, config.LoggingFormatPretty)
	hook := NewBaseHook("file-permission", "File Permission", "test", ctx)

	hook.LogHookEvent("verdict_denied", "patch_file", "/etc/hosts", nil)

	data, err := os.ReadFile(filepath.Join(ctx.LoggingDir, "file-permission.log"))
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	// Pretty format is indented multi-line JSON.
	if !strings.Contains(string(data), "\n  \"hook_key\"") {
		t.Errorf("Expected indented output, got %s", data)
	}
}
