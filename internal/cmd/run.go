package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chibi-tools/gatekeeper/internal/config"
	"github.com/chibi-tools/gatekeeper/internal/core"
	"github.com/urfave/cli/v3"
)

// NewRunCmd creates the run command. Dependencies arrive as closures so the
// command stays decoupled from the global registry.
func NewRunCmd(getPlugin func(string) (interface {
	Run() error
	Description() string
}, bool), isPluginEnabled func(string) bool, pluginKeys func() []string,
) *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "Run a specific hook plugin",
		ArgsUsage:   "[plugin-key]",
		Description: `Run a specific hook plugin the way chibi invokes it: the hook name is read from CHIBI_HOOK and the operation payload from the configured source.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Value:   false,
				Usage:   "Enable verdict audit logging to .chibi/logs/<plugin-key>.log",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "jsonl",
				Usage: "Log output format: jsonl or pretty (default jsonl)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("exactly one argument required: [plugin-key]")
			}
			key := args[0]

			// Validate plugin exists early
			p, exists := getPlugin(key)
			if !exists {
				return fmt.Errorf("plugin '%s' not found.\nAvailable plugins: %s", key, strings.Join(pluginKeys(), ", "))
			}

			// Enablement check before side effects
			if !isPluginEnabled(key) {
				fmt.Printf("Plugin '%s' is disabled via settings. Nothing to do.\n", key)
				return nil
			}

			logEnabled := cmd.Bool("log")
			logFormat := cmd.String("log-format")
			if logFormat == "" {
				logFormat = config.LoggingFormatJSONL
			}
			if logEnabled && !config.IsValidLoggingFormat(logFormat) {
				return fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", logFormat)
			}
			if logEnabled {
				logConfig := config.GetLogRotationConfig()
				logPath := config.GetLogPath(key)
				if config.SetupLogRotation(logPath, logConfig) != nil {
					if err := config.CleanupOldLogs(filepath.Dir(logPath), logConfig.MaxAge); err != nil {
						fmt.Printf("Warning: Failed to cleanup old logs: %v\n", err)
					}
				}
				core.SetGlobalLoggingConfig(true, filepath.Dir(logPath), logFormat)
			}

			if err := p.Run(); err != nil {
				return fmt.Errorf("hook '%s' failed: %v", key, err)
			}
			return nil
		},
	}
}
