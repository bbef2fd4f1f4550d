// Package core provides the hook system interfaces, base implementation,
// and execution context shared by gatekeeper's hook plugins.
package core

import (
	"io"
	"os"

	"github.com/chibi-tools/gatekeeper/internal/config"
	"github.com/chibi-tools/gatekeeper/internal/constants"
	"github.com/chibi-tools/gatekeeper/internal/prompt"
	"github.com/chibi-tools/gatekeeper/internal/protocol"
)

// Hook defines the interface that all hook implementations must satisfy
type Hook interface {
	// Key returns the unique identifier for this hook
	Key() string
	// Name returns the human-readable name for this hook
	Name() string
	// Description returns a description of what this hook does
	Description() string
	// Run executes the hook and returns any error
	Run() error
	// IsEnabled checks if this hook is enabled in the current context
	IsEnabled() bool
}

// BaseHook provides common functionality for all hooks
type BaseHook struct {
	key         string
	name        string
	description string
	context     *HookContext
}

// Key returns the hook key
func (h *BaseHook) Key() string { return h.key }

// Name returns the hook name
func (h *BaseHook) Name() string { return h.name }

// Description returns the hook description
func (h *BaseHook) Description() string { return h.description }

// IsEnabled checks if the hook is enabled by consulting settings
func (h *BaseHook) IsEnabled() bool {
	return h.context.SettingsChecker(h.key)
}

// Context returns the hook context
func (h *BaseHook) Context() *HookContext {
	return h.context
}

// NewBaseHook creates a new BaseHook with the given metadata
func NewBaseHook(key, name, description string, ctx *HookContext) *BaseHook {
	if ctx == nil {
		ctx = DefaultHookContext()
	}
	return &BaseHook{
		key:         key,
		name:        name,
		description: description,
		context:     ctx,
	}
}

// FileSystem interface for dependency injection in testing. OpenFile
// returns a WriteCloser so mocks can capture appends in memory.
type FileSystem interface {
	WriteFile(filename string, data []byte, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (io.WriteCloser, error)
	Stat(name string) (os.FileInfo, error)
}

// RealFileSystem implements FileSystem using the real filesystem
type RealFileSystem struct{}

// WriteFile writes data to a file with the specified permissions
func (fs *RealFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}

// OpenFile opens a file with the specified flags and permissions
func (fs *RealFileSystem) OpenFile(name string, flag int, perm os.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(name, flag, perm) // #nosec G304 - filesystem interface, paths controlled by caller
}

// Stat returns file information for the specified path
func (fs *RealFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Runner abstracts the protocol loop so tests can substitute a scripted one.
type Runner interface {
	Run(protocol.Handler) error
}

// RunnerFactory creates a Runner for the configured payload source
type RunnerFactory func(source protocol.PayloadSource) Runner

// DefaultRunnerFactory creates a real protocol runner bound to the process
// streams and environment.
func DefaultRunnerFactory(source protocol.PayloadSource) Runner {
	return protocol.NewRunner(constants.HookPreFileWrite, source)
}

// HookContext provides dependencies that hooks may need. Everything a hook
// touches outside its own logic flows through here, which keeps the
// decision procedure testable without process-environment mutation.
type HookContext struct {
	FileSystem      FileSystem
	Prompter        prompt.Prompter
	RunnerFactory   RunnerFactory
	SettingsChecker func(string) bool
	Gate            config.GateConfig
	Rules           *config.RuleSet
	// Diag receives human-oriented preview and prompt text; it is never
	// machine-parsed and defaults to stderr.
	Diag           io.Writer
	LoggingEnabled bool
	LoggingDir     string
	LoggingFormat  string
}

// prompterFor selects the confirmation reader for a gate configuration.
// Reading the confirmation from stdin only works when stdin is not already
// carrying the payload: with payloadSource=stdin the runner drains the
// stream before any prompt, so that combination falls back to the terminal
// prompter instead of silently denying every operation at EOF.
func prompterFor(cfg config.GateConfig) prompt.Prompter {
	if cfg.PromptSource == config.PromptSourceStdin &&
		cfg.PayloadSource == string(protocol.PayloadSourceEnv) {
		return prompt.NewStreamPrompter(os.Stdin)
	}
	return &prompt.TTYPrompter{}
}

// DefaultHookContext returns a context with real implementations, resolving
// gate configuration and rules from the settings files once up front.
func DefaultHookContext() *HookContext {
	gateCfg := config.EffectiveGateConfig()

	return &HookContext{
		FileSystem:      &RealFileSystem{},
		Prompter:        prompterFor(gateCfg),
		RunnerFactory:   DefaultRunnerFactory,
		SettingsChecker: config.IsPluginEnabled,
		Gate:            gateCfg,
		Rules:           config.LoadEffectiveRules(),
		Diag:            os.Stderr,
		LoggingEnabled:  false,
		LoggingDir:      constants.ChibiDir + "/" + constants.LogsSubDir,
		LoggingFormat:   config.LoggingFormatJSONL,
	}
}

// PayloadSource resolves the configured payload source, defaulting to stdin.
func (ctx *HookContext) PayloadSource() protocol.PayloadSource {
	if ctx.Gate.PayloadSource == string(protocol.PayloadSourceEnv) {
		return protocol.PayloadSourceEnv
	}
	return protocol.PayloadSourceStdin
}

// LogHookEvent delegates to the shared logging utility (see logging.go)
func (h *BaseHook) LogHookEvent(event, toolName, path string, details map[string]interface{}) {
	if !h.context.LoggingEnabled {
		return
	}
	logHookEvent(h.context, h.key, event, toolName, path, details)
}

// LogVerdict logs the outcome of one gate decision
func (h *BaseHook) LogVerdict(toolName, path string, verdict protocol.Verdict) {
	if !h.context.LoggingEnabled {
		return
	}
	event := "verdict_denied"
	if verdict.Approved {
		event = "verdict_approved"
	}
	logHookEvent(h.context, h.key, event, toolName, path, map[string]interface{}{
		"approved": verdict.Approved,
		"reason":   verdict.Reason,
	})
}
