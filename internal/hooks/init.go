package hooks

import "github.com/chibi-tools/gatekeeper/internal/core"

// init registers all built-in hooks
func init() {
	core.RegisterBuiltinHooks(map[string]core.HookFactory{
		"file-permission": NewFilePermissionHook,
	})
}
