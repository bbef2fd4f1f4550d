package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName    = "Gatekeeper"
	BinaryName = "gatekeeper"

	// Module and repository
	ModulePath = "github.com/chibi-tools/gatekeeper"

	// Plugin identity reported to chibi via the schema document
	PluginName        = "file_permission"
	PluginDescription = "prompts for permission before file writes"

	// Environment variables set by the chibi host
	EnvHook     = "CHIBI_HOOK"
	EnvHookData = "CHIBI_HOOK_DATA"

	// Hook and tool names on the chibi side
	HookPreFileWrite = "pre_file_write"
	ToolWriteFile    = "write_file"
	ToolPatchFile    = "patch_file"

	// Placeholder for absent or unparseable payload fields
	UnknownField = "unknown"

	// Directory and file layout under the chibi home
	ChibiDir         = ".chibi"
	PluginsSubDir    = "plugins"
	LogsSubDir       = "logs"
	SettingsFileName = "gatekeeper.json"
	RulesFileName    = "gatekeeper.yml"
)

// GetSettingsFilePath returns the full settings file path under a base directory
func GetSettingsFilePath(baseDir string) string {
	return baseDir + "/" + ChibiDir + "/" + SettingsFileName
}

// GetRulesFilePath returns the full rules file path under a base directory
func GetRulesFilePath(baseDir string) string {
	return baseDir + "/" + ChibiDir + "/" + RulesFileName
}
