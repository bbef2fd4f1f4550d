package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/chibi-tools/gatekeeper/internal/cmd"
	"github.com/chibi-tools/gatekeeper/internal/constants"
	"github.com/chibi-tools/gatekeeper/internal/core"
	_ "github.com/chibi-tools/gatekeeper/internal/hooks" // register built-in hooks
	"github.com/urfave/cli/v3"
)

// Version information set by build flags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// chibi probes plugins with --schema before anything else; answer it
	// without spinning up the CLI.
	if len(os.Args) > 1 && os.Args[1] == "--schema" {
		if err := cmd.PrintSchema(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	// A hook invocation: chibi sets CHIBI_HOOK and passes no arguments.
	if len(os.Args) == 1 && os.Getenv(constants.EnvHook) != "" {
		runHook()
		return
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runHook answers one hook invocation. The exit status stays 0: failure
// states travel in the JSON verdict, not the process exit code.
func runHook() {
	hook, err := core.CreateHook("file-permission")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if err := hook.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func newApp() *cli.Command {
	getPlugin := func(key string) (interface {
		Run() error
		Description() string
	}, bool,
	) {
		h, err := core.CreateHook(key)
		if err != nil {
			return nil, false
		}
		return h, true
	}
	pluginKeys := core.GetHookKeys
	isPluginEnabled := func(key string) bool {
		h, err := core.CreateHook(key)
		if err != nil {
			return false
		}
		return h.IsEnabled()
	}

	return &cli.Command{
		Name:  constants.BinaryName,
		Usage: "Interactive file-permission gate for chibi",
		Commands: []*cli.Command{
			cmd.NewRunCmd(getPlugin, isPluginEnabled, pluginKeys),
			cmd.NewSchemaCmd(),
			cmd.NewListCmd(getPlugin, isPluginEnabled, pluginKeys),
			cmd.NewInstallCmd(),
			cmd.NewUninstallCmd(),
			cmd.NewVersionCmd(cmd.VersionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				GoVer:   runtime.Version(),
			}),
		},
	}
}
