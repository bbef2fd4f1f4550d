package prompt

import "io"

// ScriptedPrompter replays pre-seeded responses; tests substitute it for
// the terminal-backed prompters.
type ScriptedPrompter struct {
	Responses []string
	Err       error
	Calls     int
}

// ReadLine returns the next scripted response, the configured error, or
// io.EOF once the script is exhausted.
func (p *ScriptedPrompter) ReadLine() (string, error) {
	p.Calls++
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Responses) == 0 {
		return "", io.EOF
	}
	response := p.Responses[0]
	p.Responses = p.Responses[1:]
	return response, nil
}
