package hooks

import (
	"fmt"

	"github.com/chibi-tools/gatekeeper/internal/config"
	"github.com/chibi-tools/gatekeeper/internal/core"
	"github.com/chibi-tools/gatekeeper/internal/prompt"
	"github.com/chibi-tools/gatekeeper/internal/protocol"
)

// Preview truncation limits, counted in characters, not bytes. The write
// preview appends "..." when cut; the patch preview cuts find/replace
// without a marker.
const (
	contentPreviewLimit = 200
	patchPreviewLimit   = 100
)

// FilePermissionHook asks the operator for y/N confirmation before chibi
// writes or patches a file
type FilePermissionHook struct {
	*core.BaseHook
}

// NewFilePermissionHook creates the permission gate hook instance
func NewFilePermissionHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("file-permission", "File Permission Gate",
		"Prompts for y/N confirmation before write_file and patch_file operations", ctx)
	return &FilePermissionHook{BaseHook: base}
}

// Run executes one hook invocation. A disabled gate still answers with a
// pass-through approval; chibi always expects a verdict on stdout.
func (h *FilePermissionHook) Run() error {
	runner := h.Context().RunnerFactory(h.Context().PayloadSource())
	if !h.IsEnabled() {
		return runner.Run(func(*protocol.Invocation) protocol.Verdict {
			return protocol.PassThrough()
		})
	}
	return runner.Run(h.decide)
}

// decide implements the confirmation-mode decision procedure: path rules
// first, then preview and interactive confirmation.
func (h *FilePermissionHook) decide(inv *protocol.Invocation) protocol.Verdict {
	payload := inv.Payload

	// A rule match resolves the verdict without prompting.
	if action, pattern := h.Context().Rules.Evaluate(payload.Path); action != config.RuleAsk {
		verdict := protocol.Approve(protocol.ReasonRuleAllowed)
		if action == config.RuleDeny {
			verdict = protocol.Deny(protocol.ReasonRuleBlocked)
		}
		h.LogHookEvent("rule_match", payload.ToolName, payload.Path, map[string]interface{}{
			"pattern": pattern,
			"action":  string(action),
		})
		h.LogVerdict(payload.ToolName, payload.Path, verdict)
		return verdict
	}

	h.renderPreview(payload)

	verdict := h.confirm()
	h.LogVerdict(payload.ToolName, payload.Path, verdict)
	return verdict
}

// confirm blocks for one line of operator input. Any read failure,
// including end-of-input, denies: absence of an operator response is
// never approval.
func (h *FilePermissionHook) confirm() protocol.Verdict {
	fmt.Fprint(h.Context().Diag, "allow this file operation? [y/N]: ")

	response, err := h.Context().Prompter.ReadLine()
	if err != nil {
		return protocol.Deny(protocol.ReasonUserDenied)
	}
	if prompt.Approves(response) {
		return protocol.Approve(protocol.ReasonUserApproved)
	}
	return protocol.Deny(protocol.ReasonUserDenied)
}

// renderPreview writes the human-readable operation summary to the
// diagnostic stream, never to stdout.
func (h *FilePermissionHook) renderPreview(p protocol.FileOpPayload) {
	w := h.Context().Diag

	fmt.Fprintf(w, "\n[%s] %s\n", p.ToolName, p.Path)
	if p.IsWrite() {
		fmt.Fprintf(w, "content preview:\n%s\n\n", truncateWithMarker(p.Content, contentPreviewLimit))
		return
	}

	// Anything that is not a write is previewed as a patch.
	fmt.Fprintf(w, "find: %s\n", truncate(p.Find, patchPreviewLimit))
	fmt.Fprintf(w, "replace: %s\n\n", truncate(p.Replace, patchPreviewLimit))
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func truncateWithMarker(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
