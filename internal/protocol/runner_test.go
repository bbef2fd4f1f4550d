package protocol

import (
	"bytes"
	"strings"
	"testing"
)

// envMap builds a Getenv func from a fixed map so tests never touch the
// process environment.
func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestRunnerPassThrough(t *testing.T) {
	testCases := []struct {
		name string
		hook string
	}{
		{"unrelated hook", "pre_tool_call"},
		{"empty hook", ""},
		{"post hook", "post_file_write"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdin := strings.NewReader(`{"tool_name":"write_file","path":"/tmp/a"}`)
			var stdout bytes.Buffer

			r := &Runner{
				HookName:      "pre_file_write",
				PayloadSource: PayloadSourceStdin,
				Stdin:         stdin,
				Stdout:        &stdout,
				Getenv:        envMap(map[string]string{"CHIBI_HOOK": tc.hook}),
			}

			handlerCalled := false
			err := r.Run(func(*Invocation) Verdict {
				handlerCalled = true
				return Deny(ReasonUserDenied)
			})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if handlerCalled {
				t.Error("Handler should not be called for a foreign hook")
			}
			if got := strings.TrimSpace(stdout.String()); got != `{"approved":true}` {
				t.Errorf("Expected pass-through verdict, got %s", got)
			}
			// stdin must be untouched on pass-through
			if stdin.Len() == 0 {
				t.Error("Pass-through should not consume stdin")
			}
		})
	}
}

func TestRunnerStdinPayload(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{
		HookName:      "pre_file_write",
		PayloadSource: PayloadSourceStdin,
		Stdin:         strings.NewReader(`{"tool_name":"write_file","path":"/tmp/a.txt","content":"hello"}`),
		Stdout:        &stdout,
		Getenv:        envMap(map[string]string{"CHIBI_HOOK": "pre_file_write"}),
	}

	var seen *Invocation
	err := r.Run(func(inv *Invocation) Verdict {
		seen = inv
		return Approve(ReasonUserApproved)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if seen == nil {
		t.Fatal("Handler was not invoked")
	}
	if seen.Payload.ToolName != "write_file" || seen.Payload.Path != "/tmp/a.txt" {
		t.Errorf("Unexpected payload: %+v", seen.Payload)
	}
	if got := strings.TrimSpace(stdout.String()); got != `{"approved":true,"reason":"user approved"}` {
		t.Errorf("Unexpected verdict: %s", got)
	}
}

func TestRunnerEnvPayload(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{
		HookName:      "pre_file_write",
		PayloadSource: PayloadSourceEnv,
		Stdin:         strings.NewReader(""), // stdin stays free for the prompt
		Stdout:        &stdout,
		Getenv: envMap(map[string]string{
			"CHIBI_HOOK":      "pre_file_write",
			"CHIBI_HOOK_DATA": `{"tool_name":"patch_file","path":"/tmp/b.txt","find":"x","replace":"y"}`,
		}),
	}

	var seen *Invocation
	if err := r.Run(func(inv *Invocation) Verdict {
		seen = inv
		return Deny(ReasonUserDenied)
	}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if seen == nil {
		t.Fatal("Handler was not invoked")
	}
	if seen.Payload.Find != "x" || seen.Payload.Replace != "y" {
		t.Errorf("Unexpected payload: %+v", seen.Payload)
	}
}

func TestRunnerMalformedPayloadStillProducesVerdict(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{
		HookName:      "pre_file_write",
		PayloadSource: PayloadSourceStdin,
		Stdin:         strings.NewReader("not json at all"),
		Stdout:        &stdout,
		Getenv:        envMap(map[string]string{"CHIBI_HOOK": "pre_file_write"}),
	}

	if err := r.Run(func(inv *Invocation) Verdict {
		if inv.Payload.ToolName != "unknown" || inv.Payload.Path != "unknown" {
			t.Errorf("Expected placeholder fields, got %+v", inv.Payload)
		}
		return Deny(ReasonUserDenied)
	}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(stdout.String(), `"approved":false`) {
		t.Errorf("Expected a denial verdict, got %s", stdout.String())
	}
}

func TestRunnerEmitsSingleJSONObject(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{
		HookName:      "pre_file_write",
		PayloadSource: PayloadSourceStdin,
		Stdin:         strings.NewReader(`{}`),
		Stdout:        &stdout,
		Getenv:        envMap(map[string]string{"CHIBI_HOOK": "pre_file_write"}),
	}

	if err := r.Run(func(*Invocation) Verdict { return Approve(ReasonUserApproved) }); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected exactly one output line, got %d: %q", len(lines), stdout.String())
	}
}
