// deletion-guard is the zone-aware deletion policy hook.
// Registered as a PreToolUse hook for a host agent's Bash tool: the
// envelope arrives on stdin, the decision leaves as the exit code, and
// trusted-zone targets are backed up before the deletion runs.
package main

import "github.com/frier-sam/claude-code-protect/internal/cli"

func main() {
	cli.Execute()
}
