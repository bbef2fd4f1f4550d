package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chibi-tools/gatekeeper/internal/constants"
	"github.com/urfave/cli/v3"
)

// PluginsDir returns the chibi plugin directory for the given scope:
// ~/.chibi/plugins for global installs, ./.chibi/plugins for a project.
func PluginsDir(global bool) (string, error) {
	var base string
	var err error
	if global {
		base, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %v", err)
		}
	} else {
		base, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %v", err)
		}
	}
	return filepath.Join(base, constants.ChibiDir, constants.PluginsSubDir), nil
}

// NewInstallCmd creates the install command
func NewInstallCmd() *cli.Command {
	return &cli.Command{
		Name:        "install",
		Usage:       "Install the plugin into chibi's plugin directory",
		Description: `Symlink this binary into the chibi plugin directory so chibi discovers it and starts firing its hooks.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Value:   false,
				Usage:   "Install to the global plugin directory (~/.chibi/plugins)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir, err := PluginsDir(cmd.Bool("global"))
			if err != nil {
				return err
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate binary: %v", err)
			}
			exe, err = filepath.EvalSymlinks(exe)
			if err != nil {
				return fmt.Errorf("failed to resolve binary path: %v", err)
			}

			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create plugin directory: %v", err)
			}

			link := filepath.Join(dir, constants.BinaryName)
			if existing, err := os.Readlink(link); err == nil && existing == exe {
				fmt.Printf("Already installed at %s\n", link)
				return nil
			}
			if _, err := os.Lstat(link); err == nil {
				// Stale link or leftover binary; replace it.
				if err := os.Remove(link); err != nil {
					return fmt.Errorf("failed to replace existing entry: %v", err)
				}
			}

			if err := os.Symlink(exe, link); err != nil {
				return fmt.Errorf("failed to install plugin link: %v", err)
			}

			fmt.Printf("Installed %s -> %s\n", link, exe)
			return nil
		},
	}
}

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd() *cli.Command {
	return &cli.Command{
		Name:        "uninstall",
		Usage:       "Remove the plugin from chibi's plugin directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Value:   false,
				Usage:   "Remove from the global plugin directory (~/.chibi/plugins)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir, err := PluginsDir(cmd.Bool("global"))
			if err != nil {
				return err
			}

			link := filepath.Join(dir, constants.BinaryName)
			if _, err := os.Lstat(link); os.IsNotExist(err) {
				fmt.Printf("Not installed at %s\n", link)
				return nil
			}
			if err := os.Remove(link); err != nil {
				return fmt.Errorf("failed to remove plugin link: %v", err)
			}

			fmt.Printf("Removed %s\n", link)
			return nil
		},
	}
}
