// Package protocol implements the chibi plugin wire protocol. A hook
// invocation arrives as the CHIBI_HOOK environment variable plus a JSON
// payload (on stdin or in CHIBI_HOOK_DATA), and the plugin answers with
// exactly one JSON document on stdout.
package protocol

import (
	"encoding/json"

	"github.com/chibi-tools/gatekeeper/internal/constants"
)

// FileOpPayload describes a pending file operation. write_file carries
// Content; patch_file carries Find and Replace. Absent or unparseable
// tool_name/path fields decode to the "unknown" placeholder rather than
// failing the invocation.
type FileOpPayload struct {
	ToolName string `json:"tool_name"`
	Path     string `json:"path"`
	Content  string `json:"content,omitempty"`
	Find     string `json:"find,omitempty"`
	Replace  string `json:"replace,omitempty"`
}

// IsWrite returns true when the payload describes a full-content write.
// Every other tool name is previewed as a patch.
func (p FileOpPayload) IsWrite() bool {
	return p.ToolName == constants.ToolWriteFile
}

// Invocation is a single hook firing as seen by a handler.
type Invocation struct {
	Hook    string
	Payload FileOpPayload
}

// Verdict is the structured approve/deny decision returned for one
// invocation. Pass-through verdicts carry no reason.
type Verdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// Verdict reasons on the wire. The chibi host surfaces these to the user,
// so they are part of the protocol and must not be reworded casually.
const (
	ReasonUserApproved = "user approved"
	ReasonUserDenied   = "user denied"
	ReasonRuleAllowed  = "allowed by rule"
	ReasonRuleBlocked  = "blocked by rule"
)

// Approve creates an approval verdict with the given reason.
func Approve(reason string) Verdict {
	return Verdict{Approved: true, Reason: reason}
}

// Deny creates a denial verdict with the given reason.
func Deny(reason string) Verdict {
	return Verdict{Approved: false, Reason: reason}
}

// PassThrough creates the auto-approval verdict emitted for hooks this
// plugin is not registered to evaluate.
func PassThrough() Verdict {
	return Verdict{Approved: true}
}

// DecodePayload parses a payload document, degrading gracefully: a
// malformed document or missing identity fields yield placeholders, never
// an error. Content/find/replace default to empty strings.
func DecodePayload(data []byte) FileOpPayload {
	var payload FileOpPayload
	// Ignore parse failures; the zero value is filled below.
	_ = json.Unmarshal(data, &payload)

	if payload.ToolName == "" {
		payload.ToolName = constants.UnknownField
	}
	if payload.Path == "" {
		payload.Path = constants.UnknownField
	}
	return payload
}

// Schema is the capability-description document printed for --schema.
type Schema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
	Hooks       []string        `json:"hooks"`
}

// ParameterSchema describes tool parameters. The permission gate exposes no
// tool parameters, so Properties and Required marshal as empty containers.
type ParameterSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}

// PluginSchema returns the fixed schema document for this plugin.
func PluginSchema() Schema {
	return Schema{
		Name:        constants.PluginName,
		Description: constants.PluginDescription,
		Parameters: ParameterSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
			Required:   []string{},
		},
		Hooks: []string{constants.HookPreFileWrite},
	}
}
