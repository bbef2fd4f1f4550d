package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chibi-tools/gatekeeper/internal/protocol"
	"github.com/urfave/cli/v3"
)

// PrintSchema writes the plugin's capability-description document as a
// single JSON line. Shared between the schema command and the --schema
// fast path in main.
func PrintSchema(w io.Writer) error {
	data, err := json.Marshal(protocol.PluginSchema())
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %v", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cli.Command {
	return &cli.Command{
		Name:        "schema",
		Usage:       "Print the plugin schema document",
		Description: `Print the capability-description document chibi uses to register this plugin. Equivalent to invoking the binary with --schema as the first argument.`,
		Action: func(_ context.Context, _ *cli.Command) error {
			return PrintSchema(os.Stdout)
		},
	}
}
