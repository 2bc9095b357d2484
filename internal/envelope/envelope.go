// Package envelope decodes the PreToolUse payload the host agent writes
// to the hook's stdin. Anything that does not decode cleanly fails open
// at the caller.
package envelope

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxBytes bounds the stdin read; envelopes are small JSON objects.
const maxBytes = 4 << 20

// ToolInput carries the portion of the tool call the guard inspects.
// Unknown fields are ignored.
type ToolInput struct {
	Command string `json:"command"`
}

// Envelope is one hook invocation's immutable input record.
type Envelope struct {
	ToolName  string    `json:"tool_name"`
	ToolInput ToolInput `json:"tool_input"`
	Cwd       string    `json:"cwd"`
}

// Read decodes a single envelope from r.
func Read(r io.Reader) (*Envelope, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("envelope: read stdin: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("envelope: decode: %w", err)
	}
	return &env, nil
}

// IsBash reports whether this envelope describes a Bash tool call.
// The comparison is case-sensitive; other tools are allowed silently.
func (e *Envelope) IsBash() bool {
	return e.ToolName == "Bash"
}

// Command returns the proposed shell command line.
func (e *Envelope) Command() string {
	return e.ToolInput.Command
}

// WorkDir returns the envelope's working directory, falling back to the
// process working directory when the field is empty.
func (e *Envelope) WorkDir() string {
	if strings.TrimSpace(e.Cwd) != "" {
		return e.Cwd
	}
	wd, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return wd
}
