package protocol

import (
	"encoding/json"
	"io"
	"os"

	"github.com/chibi-tools/gatekeeper/internal/constants"
)

// PayloadSource selects the channel the operation payload arrives on.
type PayloadSource string

const (
	// PayloadSourceStdin reads one JSON document from standard input.
	PayloadSourceStdin PayloadSource = "stdin"
	// PayloadSourceEnv reads a JSON string from CHIBI_HOOK_DATA.
	PayloadSourceEnv PayloadSource = "env"
)

// IsValidPayloadSource returns true if the provided source is supported.
func IsValidPayloadSource(s string) bool {
	return s == string(PayloadSourceStdin) || s == string(PayloadSourceEnv)
}

// Handler decides the verdict for an invocation of the hook this plugin is
// registered for. Handlers never see pass-through invocations.
type Handler func(inv *Invocation) Verdict

// Runner drives one hook invocation: it reads the hook name and payload,
// dispatches to the handler, and writes the verdict. Streams and the
// environment lookup are injectable so handlers can be exercised in tests
// without process-environment mutation.
type Runner struct {
	// HookName is the one hook this plugin evaluates; every other hook
	// name is answered with an immediate pass-through approval.
	HookName string

	PayloadSource PayloadSource

	Stdin  io.Reader
	Stdout io.Writer
	Getenv func(string) string
}

// NewRunner creates a runner bound to the real process environment.
func NewRunner(hookName string, source PayloadSource) *Runner {
	return &Runner{
		HookName:      hookName,
		PayloadSource: source,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Getenv:        os.Getenv,
	}
}

// Run executes one invocation. A verdict is always written: pass-through
// for foreign hooks, otherwise whatever the handler decides. The returned
// error only reports a failure to write the verdict itself.
func (r *Runner) Run(handler Handler) error {
	hook := r.Getenv(constants.EnvHook)
	if hook != r.HookName {
		// Not our hook; auto-approve without touching stdin or stderr.
		return r.Emit(PassThrough())
	}

	inv := &Invocation{Hook: hook, Payload: r.readPayload()}
	return r.Emit(handler(inv))
}

// readPayload obtains the operation payload from the configured source.
// Read failures degrade to an empty document, which DecodePayload turns
// into placeholder fields.
func (r *Runner) readPayload() FileOpPayload {
	var data []byte
	switch r.PayloadSource {
	case PayloadSourceEnv:
		data = []byte(r.Getenv(constants.EnvHookData))
	default:
		data, _ = io.ReadAll(r.Stdin)
	}
	return DecodePayload(data)
}

// Emit writes a single JSON verdict to the result stream.
func (r *Runner) Emit(v Verdict) error {
	return json.NewEncoder(r.Stdout).Encode(v)
}
