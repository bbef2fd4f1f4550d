// Package prompt provides the interactive confirmation readers used by the
// permission gate. The read source is injectable so the decision logic can
// be tested without a controlling terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultTTYDevice is the controlling terminal on POSIX systems.
const DefaultTTYDevice = "/dev/tty"

// Prompter reads one line of operator input. The read is synchronous and
// blocking with no timeout; implementations must fail fast (not hang) when
// the underlying source is unavailable.
type Prompter interface {
	ReadLine() (string, error)
}

// TTYPrompter reads from the controlling terminal directly, leaving stdin
// free to carry the hook payload.
type TTYPrompter struct {
	// Device overrides the terminal path; empty means DefaultTTYDevice.
	Device string
}

// ReadLine opens the terminal device for a single line read. Open failures
// (no controlling terminal) and non-terminal devices surface as errors so
// the caller can fall through to its deny default.
func (p *TTYPrompter) ReadLine() (string, error) {
	device := p.Device
	if device == "" {
		device = DefaultTTYDevice
	}

	tty, err := os.OpenFile(device, os.O_RDONLY, 0) // #nosec G304 - fixed terminal device path
	if err != nil {
		return "", fmt.Errorf("failed to open terminal %s: %w", device, err)
	}
	defer func() { _ = tty.Close() }()

	if !term.IsTerminal(int(tty.Fd())) {
		return "", fmt.Errorf("%s is not a terminal", device)
	}

	return readLine(bufio.NewReader(tty))
}

// StreamPrompter reads the confirmation line from an arbitrary stream,
// typically stdin when the payload arrives via CHIBI_HOOK_DATA instead.
type StreamPrompter struct {
	reader *bufio.Reader
}

// NewStreamPrompter creates a prompter over the given stream.
func NewStreamPrompter(r io.Reader) *StreamPrompter {
	return &StreamPrompter{reader: bufio.NewReader(r)}
}

// ReadLine reads a single line; end-of-input with no data is an error.
func (p *StreamPrompter) ReadLine() (string, error) {
	return readLine(p.reader)
}

// readLine reads up to the first newline. A partial line followed by EOF is
// still a usable response; EOF with nothing read is reported to the caller.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Normalize canonicalizes an operator response for comparison: surrounding
// whitespace is trimmed and the result lowercased.
func Normalize(response string) string {
	return strings.ToLower(strings.TrimSpace(response))
}

// Approves reports whether a raw operator response grants approval. Only
// the exact normalized response "y" approves; "yes", empty input, and
// everything else deny.
func Approves(response string) bool {
	return Normalize(response) == "y"
}
