package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	// -m "message" or -m 'message', possibly spanning lines.
	msgFlag = regexp.MustCompile(`(?s)-m\s+["'](.+?)["']`)
	// -m "$(cat <<'EOF' ... EOF)" heredoc form.
	msgHeredoc = regexp.MustCompile(`(?s)cat\s+<<['"]?EOF['"]?\n(.+?)\nEOF`)
)

// commitMessage enforces the conventional-commit format on the first line
// of the message. A message it cannot extract passes through: the check
// guards style, not parseability of shell quoting.
func commitMessage(_ context.Context, env *Env) Decision {
	p := env.Payload
	if p.ToolName != "Bash" || p.ToolInput.Command == "" {
		return Allow
	}
	if !strings.Contains(p.ToolInput.Command, "git commit") {
		return Allow
	}

	msg, ok := extractCommitMessage(p.ToolInput.Command)
	if !ok {
		return Allow
	}

	firstLine := strings.TrimSpace(strings.SplitN(msg, "\n", 2)[0])
	types := env.Cfg.Hooks.CommitTypes
	conventional := regexp.MustCompile(`^(` + strings.Join(types, "|") + `)(\(.+?\))?: .+`)
	if conventional.MatchString(firstLine) {
		return Allow
	}

	env.Printer.Errorf("Commit message must follow conventional commit format:")
	env.Printer.Block("type(scope): description", 1)
	env.Printer.Mutedf("")
	env.Printer.Block("Valid types: "+strings.Join(types, ", "), 1)
	env.Printer.Mutedf("")
	env.Printer.Block(fmt.Sprintf("Got: %q", firstLine), 1)
	return Block
}

func extractCommitMessage(command string) (string, bool) {
	if m := msgHeredoc.FindStringSubmatch(command); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := msgFlag.FindStringSubmatch(command); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}
