package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewListCmd creates the list command
func NewListCmd(getPlugin func(string) (interface {
	Run() error
	Description() string
}, bool), isPluginEnabled func(string) bool, pluginKeys func() []string,
) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List available hook plugins",
		Description: `List registered hook plugins with their descriptions and enablement state from settings.`,
		Action: func(_ context.Context, _ *cli.Command) error {
			keys := pluginKeys()
			if len(keys) == 0 {
				fmt.Println("No hook plugins registered.")
				return nil
			}

			fmt.Println("Available hook plugins:")
			for _, key := range keys {
				p, exists := getPlugin(key)
				if !exists {
					continue
				}
				state := "enabled"
				if !isPluginEnabled(key) {
					state = "disabled"
				}
				fmt.Printf("  %s (%s): %s\n", key, state, p.Description())
			}
			return nil
		},
	}
}
