package hooks

import (
	"context"
	"strings"
)

// blockNoVerify rejects any git invocation that tries to skip the
// installed hooks. The commit-blocking checks only mean something if they
// cannot be sidestepped.
func blockNoVerify(_ context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Bash" || p.ToolInput.Command == "" {
		return Allow
	}

	cmd := p.ToolInput.Command
	if !strings.Contains(cmd, "git") {
		return Allow
	}
	if !strings.Contains(cmd, "--no-verify") && !strings.Contains(cmd, " -n ") && !strings.HasSuffix(cmd, " -n") {
		return Allow
	}

	env.Printer.Errorf("Using --no-verify is not allowed. Git hooks are in place for code quality.")
	env.Printer.Mutedf("")
	env.Printer.Mutedf("Please fix any issues reported by the hooks instead of bypassing them.")
	return Block
}
