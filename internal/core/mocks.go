package core

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chibi-tools/gatekeeper/internal/config"
	"github.com/chibi-tools/gatekeeper/internal/prompt"
	"github.com/chibi-tools/gatekeeper/internal/protocol"
)

// MockFileSystem implements FileSystem interface for testing
type MockFileSystem struct {
	Files    map[string][]byte
	Dirs     map[string]bool
	WriteErr error
	OpenErr  error
	StatErr  error
	mu       sync.RWMutex
}

// NewMockFileSystem creates a new mock filesystem for testing
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
		Dirs:  make(map[string]bool),
	}
}

// WriteFile writes data to a mock file in memory
func (m *MockFileSystem) WriteFile(filename string, data []byte, _ os.FileMode) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Dirs[filepath.Dir(filename)] = true
	m.Files[filename] = append([]byte(nil), data...)
	return nil
}

// OpenFile opens a mock file whose writes append to the in-memory store
func (m *MockFileSystem) OpenFile(name string, _ int, _ os.FileMode) (io.WriteCloser, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return &mockFile{fs: m, name: name}, nil
}

type mockFile struct {
	fs   *MockFileSystem
	name string
}

func (f *mockFile) Write(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.Files[f.name] = append(f.fs.Files[f.name], p...)
	return len(p), nil
}

func (f *mockFile) Close() error { return nil }

// Stat returns file information for the specified path (mock implementation)
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.Files[name]; exists {
		return &mockFileInfo{name: name, size: int64(len(data))}, nil
	}
	return nil, os.ErrNotExist
}

type mockFileInfo struct {
	name string
	size int64
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return 0o644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockRunner implements Runner without touching the process streams. If
// Invocation is set, the handler is invoked with it; otherwise the runner
// behaves like a pass-through for a foreign hook.
type MockRunner struct {
	Invocation *protocol.Invocation
	RunCalled  bool
	Emitted    []protocol.Verdict
}

// Run records the invocation and captures the emitted verdict
func (m *MockRunner) Run(handler protocol.Handler) error {
	m.RunCalled = true
	if m.Invocation == nil {
		m.Emitted = append(m.Emitted, protocol.PassThrough())
		return nil
	}
	m.Emitted = append(m.Emitted, handler(m.Invocation))
	return nil
}

// MockRunnerFactory returns a factory that always hands back the given runner
func MockRunnerFactory(runner *MockRunner) RunnerFactory {
	return func(protocol.PayloadSource) Runner { return runner }
}

// TestHookContext creates a context suitable for testing
func TestHookContext(settingsChecker func(string) bool) *HookContext {
	if settingsChecker == nil {
		settingsChecker = func(string) bool { return true }
	}

	return &HookContext{
		FileSystem:      NewMockFileSystem(),
		Prompter:        &prompt.ScriptedPrompter{},
		RunnerFactory:   MockRunnerFactory(&MockRunner{}),
		SettingsChecker: settingsChecker,
		Rules:           &config.RuleSet{},
		Diag:            io.Discard,
		LoggingFormat:   config.LoggingFormatJSONL,
	}
}
